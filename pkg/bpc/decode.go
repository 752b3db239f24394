package bpc

// decodeFrame reassembles the 19 data symbols into a calendar Frame and
// validates both parity classes (spec §4.E, §4.F). It is only called
// once the buffer holds at least minFrameEdges edges past decodeOffset.
//
// The original driver interleaves symbol classification, field
// assembly, and parity checks in one 700-line unrolled sequence that
// repeats the same "classify, on failure zero every field and emit"
// block 19 times. This reassembler instead classifies every symbol up
// front (classifySymbols) and only then walks the fixed bit layout of
// spec §4.E — table 4.E's symbol order is exactly the order fields are
// read below — which is observably identical (any one of the 19
// symbols failing still yields the same zeroed FRAME_INVALID frame)
// but replaces the repeated block with a single linear pass.
func (d *Decoder) decodeFrame() {
	for i := 0; i < d.bufLen-1; i++ {
		d.buf[i].diffUS = uint32(d.buf[i+1].t.sub(d.buf[i].t))
	}

	sym, ok := classifySymbols(d.buf[:d.bufLen], int(d.decodeOffset))
	if !ok {
		d.emit(Frame{Status: StatusFrameInvalid})
		return
	}

	p1, p2 := sym[0], sym[1]
	hour := sym[2]<<2 | sym[3]
	minute := sym[4]<<4 | sym[5]<<2 | sym[6]
	weekday := sym[7]<<2 | sym[8]
	p3 := sym[9]
	day := sym[10]<<4 | sym[11]<<2 | sym[12]
	month := sym[13]<<2 | sym[14]
	yearLow6 := sym[15]<<4 | sym[16]<<2 | sym[17]
	p4 := sym[18]

	var second uint8
	switch p1 {
	case 0:
		second = 19
	case 1:
		second = 39
	case 2:
		second = 59
	default:
		d.emit(Frame{Status: StatusFrameInvalid})
		return
	}

	if !checkParity(p3, uint16(p1), uint16(p2), uint16(hour), uint16(minute), uint16(weekday)) {
		d.emit(Frame{Status: StatusParityErr})
		return
	}
	if p3 >= 2 {
		hour += 12
	}

	if !checkParity(p4, uint16(day), uint16(month), uint16(yearLow6)) {
		d.emit(Frame{Status: StatusParityErr})
		return
	}

	// Open question (spec §9 Q1): when P4 carries the "year-add" code
	// (2 or 3), the reference decoder overwrites rather than combines
	// the year with the low-6-bit symbols just decoded, always yielding
	// 2064. That is reproduced verbatim here; it is not a bug fix.
	var year uint16
	if p4 >= 2 {
		year = 2000 + 64
	} else {
		year = 2000 + uint16(yearLow6)
	}

	if weekday == 7 {
		weekday = 0 // Sunday was encoded as 7 in the legacy protocol revision.
	}

	d.emit(Frame{
		Status:  StatusOK,
		Year:    year,
		Month:   month,
		Day:     day,
		Weekday: weekday,
		Hour:    hour,
		Minute:  minute,
		Second:  second,
	})
}
