package genera

func NewNil() Value             { return Value{kind: KindNil} }
func NewBool(b bool) Value      { return Value{kind: KindBool, data: b} }
func NewNumber(n float64) Value { return Value{kind: KindNumber, data: n} }
func NewText(s string) Value    { return Value{kind: KindText, data: s} }
func NewTextList(items []string) Value {
	return Value{kind: KindTextList, data: items}
}
func NewNumberList(items []float64) Value {
	return Value{kind: KindNumberList, data: items}
}

func NewInstance(inst *Instance) Value { return Value{kind: KindInstance, data: inst} }
func NewRefValue(obj *RefObject) Value { return Value{kind: KindRef, data: obj} }
