// Package hack implements a two pass assembler for the Hack machine.
//
// The Hack machine is a 16-bit computer with two registers (A and D), a
// 32K word instruction ROM and a 32K word data RAM. Every instruction is a
// single 16-bit word: address instructions (@value) load A, and compute
// instructions (dest=comp;jump) run the ALU, store the result, and branch.
//
// The first pass binds labels to ROM addresses. The second pass allocates
// variables from RAM address 16 upwards and encodes each instruction.
package hack
