package formula

import (
	"fmt"
	"math"
)

// Eval runs the compiled program. values is the enclosing input tuple;
// entries addressed by LoadVariable must hold float64. params supplies
// positional parameters for programs compiled without binding.
func (p *Program) Eval(values []any, params []float64) (float64, error) {
	var scratch [8]float64
	stack := scratch[:]
	if p.stackDepth > len(scratch) {
		stack = make([]float64, p.stackDepth)
	}

	var reg float64
	sp, lit, idx := 0, 0, 0
	for _, op := range p.ops {
		switch op {
		case OpcodeLoadLiteral:
			reg = p.literals[lit]
			lit++
		case OpcodeLoadVariable:
			v, ok := values[p.indices[idx]].(float64)
			if !ok {
				return 0, fmt.Errorf("%w: input %d is not real-valued", ErrBadInput, p.indices[idx])
			}
			idx++
			reg = v
		case OpcodeLoadParameter:
			i := int(p.indices[idx])
			idx++
			if i >= len(params) {
				return 0, fmt.Errorf("%w: parameter [%d] with %d supplied", ErrInsufficientParameters, i, len(params))
			}
			reg = params[i]
		case OpcodePushStack:
			stack[sp] = reg
			sp++

		case OpcodeNegative:
			reg = -reg
		case OpcodeLog:
			reg = math.Log(reg)
		case OpcodeLog10:
			reg = math.Log10(reg)
		case OpcodeExp:
			reg = math.Exp(reg)
		case OpcodeErf:
			reg = math.Erf(reg)
		case OpcodeSqrt:
			reg = math.Sqrt(reg)
		case OpcodeAbs:
			reg = math.Abs(reg)
		case OpcodeCos:
			reg = math.Cos(reg)
		case OpcodeSin:
			reg = math.Sin(reg)
		case OpcodeTan:
			reg = math.Tan(reg)
		case OpcodeAcos:
			reg = math.Acos(reg)
		case OpcodeAsin:
			reg = math.Asin(reg)
		case OpcodeAtan:
			reg = math.Atan(reg)
		case OpcodeCosh:
			reg = math.Cosh(reg)
		case OpcodeSinh:
			reg = math.Sinh(reg)
		case OpcodeTanh:
			reg = math.Tanh(reg)
		case OpcodeAcosh:
			reg = math.Acosh(reg)
		case OpcodeAsinh:
			reg = math.Asinh(reg)
		case OpcodeAtanh:
			reg = math.Atanh(reg)

		case OpcodeEqual:
			sp--
			reg = b2f(stack[sp] == reg)
		case OpcodeNotEqual:
			sp--
			reg = b2f(stack[sp] != reg)
		case OpcodeGreater:
			sp--
			reg = b2f(stack[sp] > reg)
		case OpcodeLess:
			sp--
			reg = b2f(stack[sp] < reg)
		case OpcodeGreaterEq:
			sp--
			reg = b2f(stack[sp] >= reg)
		case OpcodeLessEq:
			sp--
			reg = b2f(stack[sp] <= reg)
		case OpcodeMinus:
			sp--
			reg = stack[sp] - reg
		case OpcodePlus:
			sp--
			reg = stack[sp] + reg
		case OpcodeDiv:
			sp--
			reg = stack[sp] / reg
		case OpcodeTimes:
			sp--
			reg = stack[sp] * reg
		case OpcodePow:
			sp--
			reg = math.Pow(stack[sp], reg)
		case OpcodeAtan2:
			sp--
			reg = math.Atan2(stack[sp], reg)
		case OpcodeMax:
			sp--
			reg = math.Max(stack[sp], reg)
		case OpcodeMin:
			sp--
			reg = math.Min(stack[sp], reg)
		}
	}
	return reg, nil
}
