package wl

// DataDeviceManager creates per-seat data devices for selection and
// drag-and-drop transfers.
type DataDeviceManager struct {
	proxy
}

// GetDataDevice creates the data device bound to a seat.
func (m *DataDeviceManager) GetDataDevice(seat *Seat) *DataDevice {
	d := &DataDevice{proxy: proxy{id: m.conn.newID(), conn: m.conn}}
	m.conn.register(d.id, d)
	m.conn.request(m.id, 1, d.id, seat.id)
	return d
}

func (m *DataDeviceManager) dispatch(opcode uint16, r *reader) {
	// wl_data_device_manager has no events.
}

// DataDevice delivers selection and drag offers for one seat.
type DataDevice struct {
	proxy

	// OnDataOffer introduces a new offer object; its mime types stream in
	// as offer events before the selection or enter event that adopts it.
	OnDataOffer func(offer *DataOffer)
	// OnSelection adopts an offer as the seat's selection, or retracts
	// the selection when offer is nil.
	OnSelection func(offer *DataOffer)
}

func (d *DataDevice) dispatch(opcode uint16, r *reader) {
	switch opcode {
	case 0: // data_offer introduces a server-allocated id
		id := r.Uint32()
		if r.err != nil {
			return
		}
		offer := &DataOffer{proxy: proxy{id: id, conn: d.conn}}
		d.conn.register(id, offer)
		if d.OnDataOffer != nil {
			d.OnDataOffer(offer)
		}
	case 1: // enter: drag payloads are not consumed, args discarded
		_ = r.Uint32()
		_ = r.Uint32()
		_ = r.Fixed()
		_ = r.Fixed()
		_ = r.Uint32()
	case 2: // leave
	case 3: // motion
		_ = r.Uint32()
		_ = r.Fixed()
		_ = r.Fixed()
	case 4: // drop
	case 5: // selection
		id := r.Uint32()
		if r.err != nil {
			return
		}
		var offer *DataOffer
		if id != 0 {
			offer, _ = d.conn.lookup(id).(*DataOffer)
		}
		if d.OnSelection != nil {
			d.OnSelection(offer)
		}
	}
}

// DataOffer is one offered transfer; mime types accumulate via OnOffer.
type DataOffer struct {
	proxy

	OnOffer func(mimeType string)
}

// Receive asks the source to write the named type to fd. The caller
// keeps its copy of fd and closes it after the request is queued.
func (o *DataOffer) Receive(mimeType string, fd int) {
	o.conn.request(o.id, 1, mimeType, FD(fd))
}

// Destroy releases the offer.
func (o *DataOffer) Destroy() {
	o.conn.request(o.id, 2)
	o.conn.unregister(o.id)
}

func (o *DataOffer) dispatch(opcode uint16, r *reader) {
	if opcode != 0 {
		return
	}
	mime := r.String()
	if r.err == nil && o.OnOffer != nil {
		o.OnOffer(mime)
	}
}
