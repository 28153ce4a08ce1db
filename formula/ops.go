package formula

// UnaryOp identifies a unary operation: negation or one of the unary
// intrinsic functions.
type UnaryOp int

const (
	OpNegative UnaryOp = iota
	OpLog
	OpLog10
	OpExp
	OpErf
	OpSqrt
	OpAbs
	OpCos
	OpSin
	OpTan
	OpAcos
	OpAsin
	OpAtan
	OpCosh
	OpSinh
	OpTanh
	OpAcosh
	OpAsinh
	OpAtanh
)

// BinaryOp identifies a binary operation: arithmetic, comparison
// (yielding 0.0 or 1.0), or one of the binary intrinsic functions.
type BinaryOp int

const (
	OpEqual BinaryOp = iota
	OpNotEqual
	OpGreater
	OpLess
	OpGreaterEq
	OpLessEq
	OpMinus
	OpPlus
	OpDiv
	OpTimes
	OpPow
	OpAtan2
	OpMax
	OpMin
)

// unaryFuncs maps intrinsic names to unary operations.
var unaryFuncs = map[string]UnaryOp{
	"log":   OpLog,
	"log10": OpLog10,
	"exp":   OpExp,
	"erf":   OpErf,
	"sqrt":  OpSqrt,
	"abs":   OpAbs,
	"cos":   OpCos,
	"sin":   OpSin,
	"tan":   OpTan,
	"acos":  OpAcos,
	"asin":  OpAsin,
	"atan":  OpAtan,
	"cosh":  OpCosh,
	"sinh":  OpSinh,
	"tanh":  OpTanh,
	"acosh": OpAcosh,
	"asinh": OpAsinh,
	"atanh": OpAtanh,
}

// binaryFuncs maps intrinsic names to binary operations.
var binaryFuncs = map[string]BinaryOp{
	"atan2": OpAtan2,
	"pow":   OpPow,
	"max":   OpMax,
	"min":   OpMin,
}

// binaryOps maps operator spellings to binary operations.
var binaryOps = map[string]BinaryOp{
	"==": OpEqual,
	"!=": OpNotEqual,
	">":  OpGreater,
	"<":  OpLess,
	">=": OpGreaterEq,
	"<=": OpLessEq,
	"-":  OpMinus,
	"+":  OpPlus,
	"/":  OpDiv,
	"*":  OpTimes,
	"^":  OpPow,
}

// opPrecedence gives binding strength, low to high:
// equality, relational, additive, multiplicative, power.
var opPrecedence = map[BinaryOp]int{
	OpEqual:     1,
	OpNotEqual:  1,
	OpGreater:   2,
	OpLess:      2,
	OpGreaterEq: 2,
	OpLessEq:    2,
	OpMinus:     3,
	OpPlus:      3,
	OpDiv:       4,
	OpTimes:     4,
	OpPow:       5,
}

// Opcode is one instruction of a compiled Program. Loads set the
// register; PushStack spills it before the right operand of a binary
// node; every other opcode combines the register (and for binary ops
// the top of stack) in place.
type Opcode int

const (
	OpcodeLoadLiteral Opcode = iota
	OpcodeLoadVariable
	OpcodeLoadParameter
	OpcodePushStack

	// unary operations
	OpcodeNegative
	OpcodeLog
	OpcodeLog10
	OpcodeExp
	OpcodeErf
	OpcodeSqrt
	OpcodeAbs
	OpcodeCos
	OpcodeSin
	OpcodeTan
	OpcodeAcos
	OpcodeAsin
	OpcodeAtan
	OpcodeCosh
	OpcodeSinh
	OpcodeTanh
	OpcodeAcosh
	OpcodeAsinh
	OpcodeAtanh

	// binary operations
	OpcodeEqual
	OpcodeNotEqual
	OpcodeGreater
	OpcodeLess
	OpcodeGreaterEq
	OpcodeLessEq
	OpcodeMinus
	OpcodePlus
	OpcodeDiv
	OpcodeTimes
	OpcodePow
	OpcodeAtan2
	OpcodeMax
	OpcodeMin
)

// unaryOpcodes and binaryOpcodes translate AST operations into opcodes.
var unaryOpcodes = map[UnaryOp]Opcode{
	OpNegative: OpcodeNegative,
	OpLog:      OpcodeLog,
	OpLog10:    OpcodeLog10,
	OpExp:      OpcodeExp,
	OpErf:      OpcodeErf,
	OpSqrt:     OpcodeSqrt,
	OpAbs:      OpcodeAbs,
	OpCos:      OpcodeCos,
	OpSin:      OpcodeSin,
	OpTan:      OpcodeTan,
	OpAcos:     OpcodeAcos,
	OpAsin:     OpcodeAsin,
	OpAtan:     OpcodeAtan,
	OpCosh:     OpcodeCosh,
	OpSinh:     OpcodeSinh,
	OpTanh:     OpcodeTanh,
	OpAcosh:    OpcodeAcosh,
	OpAsinh:    OpcodeAsinh,
	OpAtanh:    OpcodeAtanh,
}

var binaryOpcodes = map[BinaryOp]Opcode{
	OpEqual:     OpcodeEqual,
	OpNotEqual:  OpcodeNotEqual,
	OpGreater:   OpcodeGreater,
	OpLess:      OpcodeLess,
	OpGreaterEq: OpcodeGreaterEq,
	OpLessEq:    OpcodeLessEq,
	OpMinus:     OpcodeMinus,
	OpPlus:      OpcodePlus,
	OpDiv:       OpcodeDiv,
	OpTimes:     OpcodeTimes,
	OpPow:       OpcodePow,
	OpAtan2:     OpcodeAtan2,
	OpMax:       OpcodeMax,
	OpMin:       OpcodeMin,
}
