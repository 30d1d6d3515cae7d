package types

import "strings"

// AccessFlags is a bitset of Smali access modifiers for classes, fields,
// methods and annotations.
//
// Note that the numeric values differ from the DEX access-flag encoding:
// DEX reuses bit values across member kinds, so the set here assigns a
// distinct bit to every modifier keyword.
type AccessFlags uint32

const (
	AccPublic AccessFlags = 1 << iota
	AccPrivate
	AccProtected
	AccStatic
	AccFinal
	AccSynchronized
	AccVolatile
	AccBridge
	AccTransient
	AccVarargs
	AccNative
	AccInterface
	AccAbstract
	AccStrictfp
	AccSynthetic
	AccAnnotation
	AccEnum
	AccConstructor
	AccDeclaredSynchronized
	AccSystem
	AccRuntime
	AccBuild
)

// accessNames lists every flag with its keyword, in declaration order.
// Names use the hyphenated lowercase spelling found in Smali source.
var accessNames = []struct {
	flag AccessFlags
	name string
}{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccSynchronized, "synchronized"},
	{AccVolatile, "volatile"},
	{AccBridge, "bridge"},
	{AccTransient, "transient"},
	{AccVarargs, "varargs"},
	{AccNative, "native"},
	{AccInterface, "interface"},
	{AccAbstract, "abstract"},
	{AccStrictfp, "strictfp"},
	{AccSynthetic, "synthetic"},
	{AccAnnotation, "annotation"},
	{AccEnum, "enum"},
	{AccConstructor, "constructor"},
	{AccDeclaredSynchronized, "declared-synchronized"},
	{AccSystem, "system"},
	{AccRuntime, "runtime"},
	{AccBuild, "build"},
}

// FlagsFromNames converts readable access modifiers into a flag set.
// Unknown keywords are ignored.
func FlagsFromNames(names []string) AccessFlags {
	var flags AccessFlags
	for _, name := range names {
		name = strings.ToLower(name)
		for _, entry := range accessNames {
			if entry.name == name {
				flags |= entry.flag
				break
			}
		}
	}
	return flags
}

// Names converts the flag set back into keywords, preserving the
// declaration order of the flag table.
func (f AccessFlags) Names() []string {
	var names []string
	for _, entry := range accessNames {
		if f&entry.flag != 0 {
			names = append(names, entry.name)
		}
	}
	return names
}

// Has reports whether any of the queried flags is set. Membership is a
// set intersection, so composite queries like AccPublic|AccProtected match
// when either bit is present.
func (f AccessFlags) Has(query AccessFlags) bool {
	return f&query != 0
}

// IsKnownFlag reports whether the given keyword is a valid access modifier.
func IsKnownFlag(name string) bool {
	for _, entry := range accessNames {
		if entry.name == name {
			return true
		}
	}
	return false
}
