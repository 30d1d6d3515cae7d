package bridge

import "fmt"

// NativeMethod implements a built-in java/lang method. The receiver is the
// raw register value the invoke popped.
type NativeMethod func(receiver any) (any, error)

// javaStringHash reproduces Java's String.hashCode:
// s[0]*31^(n-1) + s[1]*31^(n-2) + ... + s[n-1], wrapped to signed 32 bit.
func javaStringHash(s string) int64 {
	var h int32
	for _, r := range s {
		h = 31*h + int32(r)
	}
	return int64(h)
}

// identityHash produces a stable hash for arbitrary receiver values.
func identityHash(receiver any) int64 {
	if object, ok := receiver.(*Object); ok {
		return object.ID()
	}
	return javaStringHash(fmt.Sprintf("%v", receiver))
}

// builtins maps well-known class descriptors to native method tables. The
// invoke executor consults this registry before the VM class registry.
var builtins = map[string]map[string]NativeMethod{
	"Ljava/lang/Object;": {
		"toString()Ljava/lang/String;": func(receiver any) (any, error) {
			return fmt.Sprintf("%v", receiver), nil
		},
		"<init>()V": func(receiver any) (any, error) {
			return receiver, nil
		},
		"hashCode()I": func(receiver any) (any, error) {
			return identityHash(receiver), nil
		},
		"getClass()Ljava/lang/Class;": func(receiver any) (any, error) {
			if object, ok := receiver.(*Object); ok {
				return object.Class(), nil
			}
			return nil, NewExecutionError("TypeError", "getClass on %T", receiver)
		},
	},
	"Ljava/lang/Class;": {
		"getName()Ljava/lang/String;": func(receiver any) (any, error) {
			class, ok := receiver.(*Class)
			if !ok {
				return nil, NewExecutionError("TypeError", "getName on %T", receiver)
			}
			return class.Name(), nil
		},
		"getSimpleName()Ljava/lang/String;": func(receiver any) (any, error) {
			class, ok := receiver.(*Class)
			if !ok {
				return nil, NewExecutionError("TypeError", "getSimpleName on %T", receiver)
			}
			return class.SimpleName(), nil
		},
	},
	"Ljava/lang/String;": {
		"hashCode()I": func(receiver any) (any, error) {
			s, ok := receiver.(string)
			if !ok {
				return nil, NewExecutionError("TypeError", "hashCode on %T", receiver)
			}
			return javaStringHash(s), nil
		},
		"length()I": func(receiver any) (any, error) {
			s, ok := receiver.(string)
			if !ok {
				return nil, NewExecutionError("TypeError", "length on %T", receiver)
			}
			return int64(len(s)), nil
		},
	},
}
