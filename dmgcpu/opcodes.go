package dmgcpu

// handler executes one decoded instruction against c.
type handler func(c *CPU)

var baseOps [256]handler
var cbOps [256]handler

func init() {
	registerMisc()
	registerLoads()
	registerALU()
	registerControlFlow()
	registerCB()
}

func registerMisc() {
	baseOps[0x00] = func(c *CPU) {}
	baseOps[0x10] = opStop
	baseOps[0x76] = opHalt
	baseOps[0xF3] = opDI
	baseOps[0xFB] = opEI
	baseOps[0x27] = func(c *CPU) { c.daa() }
	baseOps[0x2F] = func(c *CPU) { c.cpl() }
	baseOps[0x37] = func(c *CPU) { c.scf() }
	baseOps[0x3F] = func(c *CPU) { c.ccf() }
	baseOps[0x07] = opRLCA
	baseOps[0x0F] = opRRCA
	baseOps[0x17] = opRLA
	baseOps[0x1F] = opRRA
	baseOps[0xCB] = opCBPrefix
}

func opCBPrefix(c *CPU) {
	op := c.fetch8()
	if fn := cbOps[op]; fn != nil {
		fn(c)
	}
}

func registerLoads() {
	// LD rr,d16
	for i, op := range []uint8{0x01, 0x11, 0x21, 0x31} {
		idx := uint8(i)
		baseOps[op] = func(c *CPU) { c.setRP1(idx, c.fetch16()) }
	}

	// LD (BC),A / LD (DE),A / LD (HL+),A / LD (HL-),A and their inverses
	baseOps[0x02] = func(c *CPU) { c.write(c.r.bc(), c.r.a) }
	baseOps[0x12] = func(c *CPU) { c.write(c.r.de(), c.r.a) }
	baseOps[0x22] = func(c *CPU) { c.write(c.r.hl(), c.r.a); c.r.setHL(c.r.hl() + 1) }
	baseOps[0x32] = func(c *CPU) { c.write(c.r.hl(), c.r.a); c.r.setHL(c.r.hl() - 1) }
	baseOps[0x0A] = func(c *CPU) { c.r.a = c.read(c.r.bc()) }
	baseOps[0x1A] = func(c *CPU) { c.r.a = c.read(c.r.de()) }
	baseOps[0x2A] = func(c *CPU) { c.r.a = c.read(c.r.hl()); c.r.setHL(c.r.hl() + 1) }
	baseOps[0x3A] = func(c *CPU) { c.r.a = c.read(c.r.hl()); c.r.setHL(c.r.hl() - 1) }

	// LD r,d8 (includes LD (HL),d8 at 0x36)
	ldD8Ops := []uint8{0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E}
	for idx, op := range ldD8Ops {
		idx8 := uint8(idx)
		baseOps[op] = func(c *CPU) { c.set8(idx8, c.fetch8()) }
	}

	// LD r,r' block, 0x40-0x7F, except 0x76 = HALT
	for op := 0x40; op <= 0x7F; op++ {
		if op == 0x76 {
			continue
		}
		dst := uint8((op >> 3) & 7)
		src := uint8(op & 7)
		baseOps[uint8(op)] = func(c *CPU) { c.set8(dst, c.get8(src)) }
	}

	// LD (a16),SP
	baseOps[0x08] = func(c *CPU) {
		addr := c.fetch16()
		c.write(addr, uint8(c.r.sp))
		c.write(addr+1, uint8(c.r.sp>>8))
	}

	// LD (a16),A / LD A,(a16)
	baseOps[0xEA] = func(c *CPU) { addr := c.fetch16(); c.write(addr, c.r.a) }
	baseOps[0xFA] = func(c *CPU) { addr := c.fetch16(); c.r.a = c.read(addr) }

	// LDH (a8),A / LDH A,(a8)
	baseOps[0xE0] = func(c *CPU) { a := 0xFF00 | uint16(c.fetch8()); c.write(a, c.r.a) }
	baseOps[0xF0] = func(c *CPU) { a := 0xFF00 | uint16(c.fetch8()); c.r.a = c.read(a) }

	// LD (C),A / LD A,(C)
	baseOps[0xE2] = func(c *CPU) { c.write(0xFF00|uint16(c.r.c), c.r.a) }
	baseOps[0xF2] = func(c *CPU) { c.r.a = c.read(0xFF00 | uint16(c.r.c)) }

	// 16-bit stack/SP moves
	baseOps[0xE8] = func(c *CPU) { c.addSPR8() }
	baseOps[0xF8] = func(c *CPU) { c.ldHLSPR8() }
	baseOps[0xF9] = func(c *CPU) { c.r.sp = c.r.hl(); c.tick(1) }

	// PUSH/POP - BC,DE,HL,AF
	for i, op := range []uint8{0xC5, 0xD5, 0xE5, 0xF5} {
		idx := uint8(i)
		baseOps[op] = func(c *CPU) { c.tick(1); c.push16(c.getRP2(idx)) }
	}
	for i, op := range []uint8{0xC1, 0xD1, 0xE1, 0xF1} {
		idx := uint8(i)
		baseOps[op] = func(c *CPU) { c.setRP2(idx, c.pop16()) }
	}

	// INC/DEC r8, including (HL)
	incOps := []uint8{0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C}
	decOps := []uint8{0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D}
	for i, op := range incOps {
		idx := uint8(i)
		baseOps[op] = func(c *CPU) { c.incR8(idx) }
	}
	for i, op := range decOps {
		idx := uint8(i)
		baseOps[op] = func(c *CPU) { c.decR8(idx) }
	}

	// INC/DEC rr
	for i, op := range []uint8{0x03, 0x13, 0x23, 0x33} {
		idx := uint8(i)
		baseOps[op] = func(c *CPU) { c.setRP1(idx, c.getRP1(idx)+1); c.tick(1) }
	}
	for i, op := range []uint8{0x0B, 0x1B, 0x2B, 0x3B} {
		idx := uint8(i)
		baseOps[op] = func(c *CPU) { c.setRP1(idx, c.getRP1(idx)-1); c.tick(1) }
	}

	// ADD HL,rr
	for i, op := range []uint8{0x09, 0x19, 0x29, 0x39} {
		idx := uint8(i)
		baseOps[op] = func(c *CPU) { c.addHL(c.getRP1(idx)) }
	}
}

func registerALU() {
	// aluFns indexed by the 3-bit group field of 0x80-0xBF / 0xC6-0xFE:
	// ADD,ADC,SUB,SBC,AND,XOR,OR,CP.
	aluFns := []func(*CPU, uint8){
		func(c *CPU, v uint8) { c.aluAdd(v, false) },
		func(c *CPU, v uint8) { c.aluAdd(v, true) },
		func(c *CPU, v uint8) { c.aluSub(v, false, true) },
		func(c *CPU, v uint8) { c.aluSub(v, true, true) },
		func(c *CPU, v uint8) { c.aluAnd(v) },
		func(c *CPU, v uint8) { c.aluXor(v) },
		func(c *CPU, v uint8) { c.aluOr(v) },
		func(c *CPU, v uint8) { c.aluSub(v, false, false) },
	}

	for group := 0; group < 8; group++ {
		fn := aluFns[group]
		for r := 0; r < 8; r++ {
			op := uint8(0x80 + group*8 + r)
			idx := uint8(r)
			baseOps[op] = func(c *CPU) { fn(c, c.get8(idx)) }
		}
	}

	aluD8Ops := []uint8{0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE}
	for group, op := range aluD8Ops {
		fn := aluFns[group]
		baseOps[op] = func(c *CPU) { fn(c, c.fetch8()) }
	}
}

func registerControlFlow() {
	baseOps[0xC3] = func(c *CPU) { c.jp(true) }
	baseOps[0x18] = func(c *CPU) { c.jr(true) }
	baseOps[0xCD] = func(c *CPU) { c.call(true) }
	baseOps[0xC9] = func(c *CPU) { c.ret(true, false) }
	baseOps[0xD9] = opRETI
	baseOps[0xE9] = func(c *CPU) { c.r.pc = c.r.hl() }

	jrOps := []uint8{0x20, 0x28, 0x30, 0x38}
	for i, op := range jrOps {
		idx := uint8(i)
		baseOps[op] = func(c *CPU) { c.jr(c.checkCond(idx)) }
	}
	jpOps := []uint8{0xC2, 0xCA, 0xD2, 0xDA}
	for i, op := range jpOps {
		idx := uint8(i)
		baseOps[op] = func(c *CPU) { c.jp(c.checkCond(idx)) }
	}
	callOps := []uint8{0xC4, 0xCC, 0xD4, 0xDC}
	for i, op := range callOps {
		idx := uint8(i)
		baseOps[op] = func(c *CPU) { c.call(c.checkCond(idx)) }
	}
	retOps := []uint8{0xC0, 0xC8, 0xD0, 0xD8}
	for i, op := range retOps {
		idx := uint8(i)
		baseOps[op] = func(c *CPU) { c.ret(c.checkCond(idx), true) }
	}

	rstOps := []uint8{0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF}
	for i, op := range rstOps {
		addr := uint16(i) * 8
		baseOps[op] = func(c *CPU) { c.rst(addr) }
	}
}

func registerCB() {
	shiftFns := []func(*CPU, uint8){cbRLC, cbRRC, cbRL, cbRR, cbSLA, cbSRA, cbSWAP, cbSRL}
	for group := 0; group < 8; group++ {
		fn := shiftFns[group]
		for r := 0; r < 8; r++ {
			op := uint8(group*8 + r)
			idx := uint8(r)
			cbOps[op] = func(c *CPU) { fn(c, idx) }
		}
	}

	for bit := 0; bit < 8; bit++ {
		for r := 0; r < 8; r++ {
			b, idx := uint8(bit), uint8(r)
			cbOps[uint8(0x40+bit*8+r)] = func(c *CPU) { cbBIT(c, b, idx) }
			cbOps[uint8(0x80+bit*8+r)] = func(c *CPU) { cbRES(c, b, idx) }
			cbOps[uint8(0xC0+bit*8+r)] = func(c *CPU) { cbSET(c, b, idx) }
		}
	}
}
