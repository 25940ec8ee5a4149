// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package polars

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/apache/arrow-go/v18/arrow"
)

// ParseDataType parses the textual form produced by DataType.String.
//
//	int32, str, binary, date, time, null, bool, cat
//	datetime[ms], datetime[us, Europe/Amsterdam], duration[ns]
//	decimal, decimal(10, 2), decimal(?, 2)
//	enum["a", "b"]
//	list<int64>, array<float32, 3>, struct<a: int32, "b c": str>
//
// Each parsed enum gets a new frozen mapping and every parsed cat uses
// the global mapping.
func ParseDataType(s string) (DataType, error) {
	p := &typeParser{src: s}
	dt, err := p.parseType()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected trailing input %q", p.src[p.pos:])
	}
	return dt, nil
}

var namedTypes = map[string]DataType{
	"null":    Null,
	"bool":    Boolean,
	"boolean": Boolean,
	"int8":    Int8,
	"int16":   Int16,
	"int32":   Int32,
	"int64":   Int64,
	"uint8":   Uint8,
	"uint16":  Uint16,
	"uint32":  Uint32,
	"uint64":  Uint64,
	"int128":  Int128,
	"float32": Float32,
	"float64": Float64,
	"str":     String,
	"string":  String,
	"utf8":    String,
	"binary":  Binary,
	"date":    Date,
	"time":    Time,
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: cannot parse data type %q at offset %d: %s",
		ErrInvalidOperation, p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.pos++
	return nil
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c != '_' && !unicode.IsLetter(rune(c)) && !unicode.IsDigit(rune(c)) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

// until consumes everything up to, not including, one of the stop bytes.
func (p *typeParser) until(stop string) string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune(stop, rune(p.src[p.pos])) {
		p.pos++
	}
	return strings.TrimSpace(p.src[start:p.pos])
}

func (p *typeParser) quoted() (string, error) {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '"' {
		return "", p.errorf("expected quoted string")
	}
	prefix, err := strconv.QuotedPrefix(p.src[p.pos:])
	if err != nil {
		return "", p.errorf("%s", err)
	}
	p.pos += len(prefix)
	return strconv.Unquote(prefix)
}

func (p *typeParser) integer() (int, error) {
	tok := p.until(",)>]")
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, p.errorf("expected integer, got %q", tok)
	}
	return v, nil
}

func (p *typeParser) parseType() (DataType, error) {
	name := strings.ToLower(p.ident())
	if name == "" {
		return nil, p.errorf("expected type name")
	}
	if dt, ok := namedTypes[name]; ok {
		return dt, nil
	}

	switch name {
	case "cat", "categorical":
		return Categorical(nil), nil
	case "datetime", "duration":
		if err := p.expect('['); err != nil {
			return nil, err
		}
		unit, err := parseTimeUnit(p.until(",]"))
		if err != nil {
			return nil, p.errorf("%s", err)
		}
		var tz string
		if name == "datetime" && p.peek() == ',' {
			p.pos++
			tz = p.until("]")
		}
		if err := p.expect(']'); err != nil {
			return nil, err
		}
		if name == "duration" {
			return Duration(unit), nil
		}
		return Datetime(unit, tz), nil
	case "decimal":
		if p.peek() != '(' {
			return Decimal(Unspecified, Unspecified), nil
		}
		p.pos++
		prec, err := p.decimalParam()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		scale, err := p.decimalParam()
		if err != nil {
			return nil, err
		}
		if err := p.expect(')'); err != nil {
			return nil, err
		}
		return Decimal(prec, scale), nil
	case "enum":
		if err := p.expect('['); err != nil {
			return nil, err
		}
		var values []string
		for p.peek() != ']' {
			if len(values) > 0 {
				if err := p.expect(','); err != nil {
					return nil, err
				}
			}
			v, err := p.quoted()
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		p.pos++
		dt, err := Enum(values...)
		if err != nil {
			return nil, p.errorf("%s", err)
		}
		return dt, nil
	case "list":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return ListOf(elem), nil
	case "array":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(','); err != nil {
			return nil, err
		}
		width, err := p.integer()
		if err != nil {
			return nil, err
		}
		if err := p.expect('>'); err != nil {
			return nil, err
		}
		return ArrayOf(elem, width), nil
	case "struct":
		if err := p.expect('<'); err != nil {
			return nil, err
		}
		var fields []Field
		for p.peek() != '>' {
			if len(fields) > 0 {
				if err := p.expect(','); err != nil {
					return nil, err
				}
			}
			var fname string
			if p.peek() == '"' {
				var err error
				if fname, err = p.quoted(); err != nil {
					return nil, err
				}
			} else {
				fname = p.ident()
			}
			if err := p.expect(':'); err != nil {
				return nil, err
			}
			ft, err := p.parseType()
			if err != nil {
				return nil, err
			}
			fields = append(fields, Field{Name: fname, Type: ft})
		}
		p.pos++
		return StructOf(fields...), nil
	}
	return nil, p.errorf("unknown type %q", name)
}

func (p *typeParser) decimalParam() (int32, error) {
	if p.peek() == '?' {
		p.pos++
		return Unspecified, nil
	}
	v, err := p.integer()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

func parseTimeUnit(s string) (arrow.TimeUnit, error) {
	switch s {
	case "s":
		return arrow.Second, nil
	case "ms":
		return arrow.Millisecond, nil
	case "us", "μs":
		return arrow.Microsecond, nil
	case "ns":
		return arrow.Nanosecond, nil
	}
	return 0, fmt.Errorf("unknown time unit %q", s)
}
