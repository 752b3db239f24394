package bpc

// scanForStart performs the cold-search half of frame synchronisation
// (spec §4.D mode 1): it fills in the inter-edge gaps from the oldest
// edge onwards and stops at the first interval that satisfies the
// start-pulse tolerance, locking decodeOffset there. The start edge itself is not data; the
// first symbol begins at the edge after it.
func (d *Decoder) scanForStart() {
	last := d.bufLen - 1
	for i := 0; i < last; i++ {
		diff := d.buf[i+1].t.sub(d.buf[i].t)
		d.buf[i].diffUS = uint32(diff)

		if checkStartFrame(uint32(diff)) {
			d.decodeValid = true
			d.decodeOffset = uint8(i + 1)
			break
		}
	}
}

// traceDecode performs the trace-continuation half of frame
// synchronisation (spec §4.D mode 2), run once per edge while
// traceValid is set from a prior successful frame. The newest edge
// (buf[0], since trace mode always starts from a freshly emptied
// buffer) is checked directly against lastTime: if it satisfies the
// start-pulse tolerance, it *is* the end of the start pulse and
// decoding may begin immediately at offset 0. Otherwise the attempt is
// abandoned and a cold search starts over.
func (d *Decoder) traceDecode() {
	diff := d.buf[0].t.sub(d.lastTime)

	if checkStartFrame(uint32(diff)) {
		d.decodeOffset = 0
		d.decodeValid = true
		d.traceValid = false
		return
	}

	d.resetAttempt()
}
