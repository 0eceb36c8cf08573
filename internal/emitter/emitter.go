// Package emitter builds the Rat25S stack-machine instruction list.
//
// Instructions are appended in program order as they are recognized by
// the parser. Forward branch targets (the else/endwhile skip, the
// if-true skip) are not known until the corresponding LABEL is emitted,
// so a jump is first appended with a TBD placeholder operand and patched
// in place once its target slot is known — grounded on the teacher's
// internal/bytecode patchJumpToTarget, re-expressed over string mnemonics
// instead of packed binary opcodes (spec.md §3, §4.4; SPEC_FULL.md OQ2).
package emitter

import "strconv"

// Mnemonic is one of the fixed Rat25S stack-machine opcodes.
type Mnemonic string

const (
	Pushi Mnemonic = "PUSHI"
	Pushm Mnemonic = "PUSHM"
	Popm  Mnemonic = "POPM"
	Sin   Mnemonic = "SIN"
	Sout  Mnemonic = "SOUT"
	Add   Mnemonic = "A"
	Sub   Mnemonic = "S"
	Mul   Mnemonic = "M"
	Div   Mnemonic = "D"
	Equ   Mnemonic = "EQU"
	Neq   Mnemonic = "NEQ"
	Grt   Mnemonic = "GRT"
	Les   Mnemonic = "LES"
	Leq   Mnemonic = "LEQ"
	Geq   Mnemonic = "GEQ"
	Jmp0  Mnemonic = "JMP0"
	Jmp   Mnemonic = "JMP"
	Label Mnemonic = "LABEL"
)

// tbd marks an operand not yet known; Patch replaces it once the target
// slot is determined.
const tbd = "TBD"

// Instruction is one emitted stack-machine instruction. Operand is
// meaningless when HasOperand is false.
type Instruction struct {
	Mnemonic   Mnemonic
	Operand    string
	HasOperand bool
}

// Emitter is the append-only instruction list. Slot indices returned by
// its emit methods are 0-based internally; the report writer renders them
// 1-based (spec.md §6).
type Emitter struct {
	instructions []Instruction
}

// New returns an empty Emitter.
func New() *Emitter {
	return &Emitter{}
}

// Len is the number of instructions emitted so far.
func (e *Emitter) Len() int {
	return len(e.instructions)
}

// Instructions returns the full instruction list in emission order.
func (e *Emitter) Instructions() []Instruction {
	return e.instructions
}

func (e *Emitter) append(instr Instruction) int {
	e.instructions = append(e.instructions, instr)
	return len(e.instructions) - 1
}

// Emit appends a no-operand instruction (SIN, SOUT, A, S, M, D, EQU, NEQ,
// GRT, LES, LEQ, GEQ) and returns its slot index.
func (e *Emitter) Emit(m Mnemonic) int {
	return e.append(Instruction{Mnemonic: m})
}

// EmitOperand appends an instruction carrying an integer operand (PUSHI,
// PUSHM, POPM, JMP to a known target) and returns its slot index.
func (e *Emitter) EmitOperand(m Mnemonic, operand int) int {
	return e.append(Instruction{Mnemonic: m, Operand: strconv.Itoa(operand), HasOperand: true})
}

// EmitLabel appends a LABEL marker and returns its slot index (1-based
// slot numbers are what callers patch jumps to point at).
func (e *Emitter) EmitLabel() int {
	return e.append(Instruction{Mnemonic: Label})
}

// EmitJumpPlaceholder appends a jump (JMP or JMP0) with a TBD operand,
// returning its slot index so the caller can Patch it once the target is
// known.
func (e *Emitter) EmitJumpPlaceholder(m Mnemonic) int {
	return e.append(Instruction{Mnemonic: m, Operand: tbd, HasOperand: true})
}

// Patch rewrites the operand of a previously emitted jump placeholder to
// point at targetSlot, expressed as a 1-based instruction number (matching
// the report's Assembly Code Listing numbering).
func (e *Emitter) Patch(jumpSlot int, targetSlot1Based int) {
	e.instructions[jumpSlot].Operand = strconv.Itoa(targetSlot1Based)
}

// NextSlot1Based is the 1-based slot number the next emitted instruction
// will occupy — used when computing a jump target from "the instruction
// about to be emitted".
func (e *Emitter) NextSlot1Based() int {
	return len(e.instructions) + 1
}
