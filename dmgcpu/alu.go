package dmgcpu

// aluAdd implements ADD/ADC A,v.
func (c *CPU) aluAdd(v uint8, carry bool) {
	a := c.r.a
	var cy uint16
	if carry && c.r.flag(flagC) {
		cy = 1
	}
	sum := uint16(a) + uint16(v) + cy
	z := uint8(sum) == 0
	n := false
	h := (a&0xF)+(v&0xF)+uint8(cy) > 0xF
	cf := sum > 0xFF
	c.r.setFlags(&z, &n, &h, &cf)
	c.r.a = uint8(sum)
}

// aluSub implements SUB/SBC/CP A,v. When store is false (CP) the
// result is discarded but flags still reflect the subtraction.
func (c *CPU) aluSub(v uint8, carry, store bool) {
	a := c.r.a
	var cy uint8
	if carry && c.r.flag(flagC) {
		cy = 1
	}
	res := a - v - cy
	z := res == 0
	n := true
	h := (a & 0xF) < (v&0xF)+cy
	cf := uint16(a) < uint16(v)+uint16(cy)
	c.r.setFlags(&z, &n, &h, &cf)
	if store {
		c.r.a = res
	}
}

func (c *CPU) aluAnd(v uint8) {
	c.r.a &= v
	z := c.r.a == 0
	c.r.setFlags(&z, bp(false), bp(true), bp(false))
}

func (c *CPU) aluXor(v uint8) {
	c.r.a ^= v
	z := c.r.a == 0
	c.r.setFlags(&z, bp(false), bp(false), bp(false))
}

func (c *CPU) aluOr(v uint8) {
	c.r.a |= v
	z := c.r.a == 0
	c.r.setFlags(&z, bp(false), bp(false), bp(false))
}

// incR8/decR8 implement INC/DEC r - they leave the carry flag alone.
func (c *CPU) incR8(idx uint8) {
	v := c.get8(idx)
	nv := v + 1
	z := nv == 0
	h := v&0xF == 0xF
	c.r.setFlags(&z, bp(false), &h, nil)
	c.set8(idx, nv)
}

func (c *CPU) decR8(idx uint8) {
	v := c.get8(idx)
	nv := v - 1
	z := nv == 0
	h := v&0xF == 0
	c.r.setFlags(&z, bp(true), &h, nil)
	c.set8(idx, nv)
}

// addHL implements ADD HL,rr.
func (c *CPU) addHL(v uint16) {
	hl := c.r.hl()
	sum := uint32(hl) + uint32(v)
	h := (hl&0xFFF)+(v&0xFFF) > 0xFFF
	cf := sum > 0xFFFF
	c.r.setFlags(nil, bp(false), &h, &cf)
	c.r.setHL(uint16(sum))
	c.tick(1)
}

// addSPR8 implements ADD SP,r8. The immediate byte is a signed
// displacement, but the half-carry/carry flags are computed byte-wise
// against SP's low byte and the raw unsigned byte value.
func (c *CPU) addSPR8() {
	raw := c.fetch8()
	sp := c.r.sp
	h := (sp&0xF)+(uint16(raw)&0xF) > 0xF
	cf := (sp&0xFF)+uint16(raw) > 0xFF
	c.r.setFlags(bp(false), bp(false), &h, &cf)
	c.r.sp = uint16(int32(sp) + int32(int8(raw)))
	c.tick(2)
}

// ldHLSPR8 implements LD HL,SP+r8, same flag math as addSPR8 but with
// one fewer internal delay cycle and no SP mutation.
func (c *CPU) ldHLSPR8() {
	raw := c.fetch8()
	sp := c.r.sp
	h := (sp&0xF)+(uint16(raw)&0xF) > 0xF
	cf := (sp&0xFF)+uint16(raw) > 0xFF
	c.r.setFlags(bp(false), bp(false), &h, &cf)
	c.r.setHL(uint16(int32(sp) + int32(int8(raw))))
	c.tick(1)
}

// daa re-adjusts A to valid BCD after an ADD/SUB on BCD operands.
func (c *CPU) daa() {
	var adj uint8
	cf := false
	if c.r.flag(flagH) || (!c.r.flag(flagN) && c.r.a&0xF > 9) {
		adj = 6
	}
	if c.r.flag(flagC) || (!c.r.flag(flagN) && c.r.a > 0x99) {
		adj |= 0x60
		cf = true
	}
	if c.r.flag(flagN) {
		c.r.a -= adj
	} else {
		c.r.a += adj
	}
	z := c.r.a == 0
	c.r.setFlags(&z, nil, bp(false), &cf)
}

func (c *CPU) cpl() {
	c.r.a = ^c.r.a
	c.r.setFlags(nil, bp(true), bp(true), nil)
}

func (c *CPU) scf() {
	c.r.setFlags(nil, bp(false), bp(false), bp(true))
}

func (c *CPU) ccf() {
	cf := !c.r.flag(flagC)
	c.r.setFlags(nil, bp(false), bp(false), &cf)
}
