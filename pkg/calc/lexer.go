package calc

import (
	"fmt"
	"strconv"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokComma
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of expression"
	case tokNumber:
		return "number"
	case tokIdent:
		return "name"
	case tokPlus:
		return `"+"`
	case tokMinus:
		return `"-"`
	case tokStar:
		return `"*"`
	case tokSlash:
		return `"/"`
	case tokLParen:
		return `"("`
	case tokRParen:
		return `")"`
	case tokComma:
		return `","`
	}
	return "unknown token"
}

type token struct {
	kind  tokenKind
	pos   int
	text  string
	value float64
}

var punctuation = map[byte]tokenKind{
	'+': tokPlus,
	'-': tokMinus,
	'*': tokStar,
	'/': tokSlash,
	'(': tokLParen,
	')': tokRParen,
	',': tokComma,
}

func tokenize(src string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case isDigit(c) || c == '.':
			tok, next, err := lexNumber(src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			i = next
		case isLetter(c):
			start := i
			for i < len(src) && (isLetter(src[i]) || isDigit(src[i])) {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, pos: start, text: src[start:i]})
		default:
			kind, ok := punctuation[c]
			if !ok {
				return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected character %q", rune(c))}
			}
			tokens = append(tokens, token{kind: kind, pos: i, text: string(c)})
			i++
		}
	}
	return append(tokens, token{kind: tokEOF, pos: len(src)}), nil
}

func lexNumber(src string, start int) (token, int, error) {
	i := start
	digits := 0
	for i < len(src) && isDigit(src[i]) {
		i++
		digits++
	}
	if i < len(src) && src[i] == '.' {
		i++
		for i < len(src) && isDigit(src[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return token{}, 0, &SyntaxError{Pos: start, Msg: "invalid number"}
	}
	if i < len(src) && (src[i] == 'e' || src[i] == 'E') {
		j := i + 1
		if j < len(src) && (src[j] == '+' || src[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(src) && isDigit(src[j]) {
			j++
			expDigits++
		}
		if expDigits == 0 {
			return token{}, 0, &SyntaxError{Pos: start, Msg: "invalid number"}
		}
		i = j
	}

	text := src[start:i]
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, 0, &SyntaxError{Pos: start, Msg: fmt.Sprintf("number %s out of range", text)}
	}
	return token{kind: tokNumber, pos: start, text: text, value: value}, i, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
