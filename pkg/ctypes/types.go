// Package ctypes models the C types a cast type name can denote
package ctypes

import "strings"

// Type is the interface for all C types
type Type interface {
	implType()
	String() string
}

// Signedness represents signed/unsigned for integer types
type Signedness int

const (
	Signed Signedness = iota
	Unsigned
)

func (s Signedness) String() string {
	if s == Signed {
		return "signed"
	}
	return "unsigned"
}

// IntSize represents the size of integer types
type IntSize int

const (
	I8 IntSize = iota
	I16
	I32
	IBool
)

func (s IntSize) String() string {
	names := []string{"i8", "i16", "i32", "ibool"}
	if int(s) < len(names) {
		return names[s]
	}
	return "?"
}

// FloatSize represents the size of floating-point types
type FloatSize int

const (
	F32 FloatSize = iota
	F64
	FLong // long double
)

func (s FloatSize) String() string {
	switch s {
	case F32:
		return "f32"
	case F64:
		return "f64"
	}
	return "flong"
}

// Tvoid represents the void type
type Tvoid struct{}

// Tint represents integer types (char, short, int)
type Tint struct {
	Size IntSize
	Sign Signedness
}

// Tlong represents long and long long
type Tlong struct {
	Sign     Signedness
	LongLong bool
}

// Tfloat represents floating-point types (float, double, long double)
type Tfloat struct {
	Size FloatSize
}

// Tpointer represents pointer types
type Tpointer struct {
	Elem Type
}

// Tstruct represents a struct type referenced by tag
type Tstruct struct {
	Name string
}

// Tunion represents a union type referenced by tag
type Tunion struct {
	Name string
}

// Tenum represents an enum type referenced by tag
type Tenum struct {
	Name string
}

// Tnamed is a typedef name; its definition lives outside the expression
type Tnamed struct {
	Name string
}

// Tqualified attaches cv-qualifiers to a type
type Tqualified struct {
	Elem     Type
	Const    bool
	Volatile bool
	Restrict bool
}

// Marker methods for Type interface
func (Tvoid) implType()      {}
func (Tint) implType()       {}
func (Tlong) implType()      {}
func (Tfloat) implType()     {}
func (Tpointer) implType()   {}
func (Tstruct) implType()    {}
func (Tunion) implType()     {}
func (Tenum) implType()      {}
func (Tnamed) implType()     {}
func (Tqualified) implType() {}

// String methods for types
func (Tvoid) String() string { return "void" }

func (t Tint) String() string {
	sign := ""
	if t.Sign == Unsigned {
		sign = "unsigned "
	}
	switch t.Size {
	case I8:
		return sign + "char"
	case I16:
		return sign + "short"
	case I32:
		return sign + "int"
	case IBool:
		return "_Bool"
	}
	return sign + "int"
}

func (t Tlong) String() string {
	s := "long"
	if t.LongLong {
		s = "long long"
	}
	if t.Sign == Unsigned {
		return "unsigned " + s
	}
	return s
}

func (t Tfloat) String() string {
	switch t.Size {
	case F32:
		return "float"
	case FLong:
		return "long double"
	}
	return "double"
}

func (t Tpointer) String() string {
	if t.Elem == nil {
		return "void *"
	}
	return t.Elem.String() + " *"
}

func (t Tstruct) String() string { return "struct " + t.Name }
func (t Tunion) String() string  { return "union " + t.Name }
func (t Tenum) String() string   { return "enum " + t.Name }
func (t Tnamed) String() string  { return t.Name }

func (t Tqualified) String() string {
	var quals []string
	if t.Const {
		quals = append(quals, "const")
	}
	if t.Volatile {
		quals = append(quals, "volatile")
	}
	if t.Restrict {
		quals = append(quals, "restrict")
	}
	if len(quals) == 0 {
		return t.Elem.String()
	}
	// qualifiers on a pointer follow the star
	if _, ok := t.Elem.(Tpointer); ok {
		return t.Elem.String() + " " + strings.Join(quals, " ")
	}
	return strings.Join(quals, " ") + " " + t.Elem.String()
}

// Common type constructors

// Int returns a signed 32-bit int type
func Int() Type {
	return Tint{Size: I32, Sign: Signed}
}

// UInt returns an unsigned 32-bit int type
func UInt() Type {
	return Tint{Size: I32, Sign: Unsigned}
}

// Char returns a signed char type
func Char() Type {
	return Tint{Size: I8, Sign: Signed}
}

// UChar returns an unsigned char type
func UChar() Type {
	return Tint{Size: I8, Sign: Unsigned}
}

// Short returns a signed short type
func Short() Type {
	return Tint{Size: I16, Sign: Signed}
}

// Long returns a signed long type
func Long() Type {
	return Tlong{Sign: Signed}
}

// Float returns a float (32-bit) type
func Float() Type {
	return Tfloat{Size: F32}
}

// Double returns a double (64-bit) type
func Double() Type {
	return Tfloat{Size: F64}
}

// Void returns the void type
func Void() Type {
	return Tvoid{}
}

// Pointer returns a pointer to the given type
func Pointer(elem Type) Type {
	return Tpointer{Elem: elem}
}

// Equal checks if two types are equal
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch ta := a.(type) {
	case Tvoid:
		_, ok := b.(Tvoid)
		return ok
	case Tint:
		tb, ok := b.(Tint)
		return ok && ta.Size == tb.Size && ta.Sign == tb.Sign
	case Tlong:
		tb, ok := b.(Tlong)
		return ok && ta.Sign == tb.Sign && ta.LongLong == tb.LongLong
	case Tfloat:
		tb, ok := b.(Tfloat)
		return ok && ta.Size == tb.Size
	case Tpointer:
		tb, ok := b.(Tpointer)
		return ok && Equal(ta.Elem, tb.Elem)
	case Tstruct:
		tb, ok := b.(Tstruct)
		return ok && ta.Name == tb.Name
	case Tunion:
		tb, ok := b.(Tunion)
		return ok && ta.Name == tb.Name
	case Tenum:
		tb, ok := b.(Tenum)
		return ok && ta.Name == tb.Name
	case Tnamed:
		tb, ok := b.(Tnamed)
		return ok && ta.Name == tb.Name
	case Tqualified:
		tb, ok := b.(Tqualified)
		return ok && ta.Const == tb.Const && ta.Volatile == tb.Volatile &&
			ta.Restrict == tb.Restrict && Equal(ta.Elem, tb.Elem)
	}
	return false
}
