package wl

// Mode flags.
const (
	ModeCurrent   uint32 = 0x1
	ModePreferred uint32 = 0x2
)

// Output describes one monitor.
type Output struct {
	proxy

	OnGeometry func(x, y, physWidth, physHeight, subpixel int32, maker, model string, transform int32)
	OnMode     func(flags uint32, width, height, refresh int32)
	OnDone     func()
	OnScale    func(factor int32)
}

func (o *Output) dispatch(opcode uint16, r *reader) {
	switch opcode {
	case 0:
		x := r.Int32()
		y := r.Int32()
		physW := r.Int32()
		physH := r.Int32()
		subpixel := r.Int32()
		maker := r.String()
		model := r.String()
		transform := r.Int32()
		if r.err == nil && o.OnGeometry != nil {
			o.OnGeometry(x, y, physW, physH, subpixel, maker, model, transform)
		}
	case 1:
		flags := r.Uint32()
		width := r.Int32()
		height := r.Int32()
		refresh := r.Int32()
		if r.err == nil && o.OnMode != nil {
			o.OnMode(flags, width, height, refresh)
		}
	case 2:
		if o.OnDone != nil {
			o.OnDone()
		}
	case 3:
		factor := r.Int32()
		if r.err == nil && o.OnScale != nil {
			o.OnScale(factor)
		}
	}
}
