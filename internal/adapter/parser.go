package adapter

import (
	"fmt"
	"strconv"
	"strings"

	m "github.com/inmzhang/leaky/internal/model"
)

// ParseCircuit parses the backend's textual circuit form: one instruction
// per line as NAME[tag](args) followed by whitespace-separated targets,
// `#` comments, and REPEAT blocks delimited by braces.
func ParseCircuit(src string) (m.Circuit, error) {
	p := &circuitParser{}

	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if err := p.parseLine(line, i+1); err != nil {
			return m.Circuit{}, err
		}
	}

	if len(p.stack) > 0 {
		return m.Circuit{}, fmt.Errorf("circuit line %d: unclosed REPEAT block: %w", p.stack[len(p.stack)-1].line, m.ErrInvalidArgument)
	}

	return p.root, nil
}

type openBlock struct {
	repeat uint64
	line   int
	body   m.Circuit
}

type circuitParser struct {
	root  m.Circuit
	stack []openBlock
}

func (p *circuitParser) append(op m.Op) {
	if len(p.stack) > 0 {
		top := &p.stack[len(p.stack)-1]
		top.body.Ops = append(top.body.Ops, op)

		return
	}

	p.root.Ops = append(p.root.Ops, op)
}

func (p *circuitParser) parseLine(line string, lineNo int) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	if line == "}" {
		if len(p.stack) == 0 {
			return fmt.Errorf("circuit line %d: unmatched '}': %w", lineNo, m.ErrInvalidArgument)
		}

		top := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		body := top.body
		p.append(m.Op{Repeat: top.repeat, Block: &body})

		return nil
	}

	if rest, ok := strings.CutPrefix(line, "REPEAT"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
		return p.openRepeat(rest, lineNo)
	}

	inst, err := parseInstruction(line, lineNo)
	if err != nil {
		return err
	}

	p.append(m.Op{Inst: inst})

	return nil
}

func (p *circuitParser) openRepeat(rest string, lineNo int) error {
	rest = strings.TrimSpace(rest)

	count, ok := strings.CutSuffix(rest, "{")
	if !ok {
		return fmt.Errorf("circuit line %d: REPEAT must open a '{' block: %w", lineNo, m.ErrInvalidArgument)
	}

	repeats, err := strconv.ParseUint(strings.TrimSpace(count), 10, 64)
	if err != nil {
		return fmt.Errorf("circuit line %d: bad REPEAT count %q: %w", lineNo, strings.TrimSpace(count), m.ErrInvalidArgument)
	}

	p.stack = append(p.stack, openBlock{repeat: repeats, line: lineNo})

	return nil
}

func parseInstruction(line string, lineNo int) (m.Instruction, error) {
	nameEnd := 0
	for nameEnd < len(line) && isNameChar(line[nameEnd]) {
		nameEnd++
	}

	if nameEnd == 0 {
		return m.Instruction{}, fmt.Errorf("circuit line %d: expected an instruction name: %w", lineNo, m.ErrInvalidArgument)
	}

	inst := m.Instruction{Name: line[:nameEnd]}
	rest := line[nameEnd:]

	if strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return m.Instruction{}, fmt.Errorf("circuit line %d: unterminated tag: %w", lineNo, m.ErrInvalidArgument)
		}

		inst.Tag = rest[1:end]
		rest = rest[end+1:]
	}

	if strings.HasPrefix(rest, "(") {
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return m.Instruction{}, fmt.Errorf("circuit line %d: unterminated argument list: %w", lineNo, m.ErrInvalidArgument)
		}

		for _, field := range strings.Split(rest[1:end], ",") {
			arg, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return m.Instruction{}, fmt.Errorf("circuit line %d: bad gate argument %q: %w", lineNo, strings.TrimSpace(field), m.ErrInvalidArgument)
			}

			inst.Args = append(inst.Args, arg)
		}

		rest = rest[end+1:]
	}

	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return m.Instruction{}, fmt.Errorf("circuit line %d: unexpected %q after instruction name: %w", lineNo, rest, m.ErrInvalidArgument)
	}

	for _, field := range strings.Fields(rest) {
		target, err := parseTarget(field, lineNo)
		if err != nil {
			return m.Instruction{}, err
		}

		inst.Targets = append(inst.Targets, target)
	}

	return inst, nil
}

func parseTarget(field string, lineNo int) (m.Target, error) {
	if inner, ok := strings.CutPrefix(field, "rec["); ok {
		body, ok := strings.CutSuffix(inner, "]")
		if !ok {
			return m.Target{}, fmt.Errorf("circuit line %d: bad record target %q: %w", lineNo, field, m.ErrInvalidArgument)
		}

		lookback, err := strconv.Atoi(body)
		if err != nil || lookback >= 0 {
			return m.Target{}, fmt.Errorf("circuit line %d: bad record target %q: %w", lineNo, field, m.ErrInvalidArgument)
		}

		return m.RecordTarget(lookback), nil
	}

	qubit, err := strconv.Atoi(field)
	if err != nil || qubit < 0 {
		return m.Target{}, fmt.Errorf("circuit line %d: bad qubit target %q: %w", lineNo, field, m.ErrInvalidArgument)
	}

	return m.QubitTarget(qubit), nil
}

func isNameChar(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
