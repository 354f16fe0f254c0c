package genera

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Number() float64 {
	if v.kind == KindNumber {
		return v.data.(float64)
	}
	return 0
}

func (v Value) Text() string {
	if v.kind != KindText {
		return ""
	}
	return v.data.(string)
}

func (v Value) TextList() []string {
	if v.kind != KindTextList {
		return nil
	}
	return v.data.([]string)
}

func (v Value) NumberList() []float64 {
	if v.kind != KindNumberList {
		return nil
	}
	return v.data.([]float64)
}

func (v Value) Instance() *Instance {
	if v.kind != KindInstance {
		return nil
	}
	return v.data.(*Instance)
}

func (v Value) Ref() *RefObject {
	if v.kind != KindRef {
		return nil
	}
	return v.data.(*RefObject)
}
