package command

import (
	"fmt"
	"strconv"
)

// Alphabet is the set of bytes a key is made of. Keys never contain whitespace or the '+' / '-' markers,
// which is what makes the line format parseable even though lookups are not newline terminated
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MaxKeyLength is the longest key the generator produces
const MaxKeyLength = 255

// Kind is the type of operation a command performs against the store. The numeric values are
// the ones drawn by the generator
type Kind uint8

const (
	KindInsert Kind = iota
	KindDelete
	KindLookup
)

// NumKinds is the number of command kinds, kinds are drawn uniformly from [0, NumKinds)
const NumKinds = 3

func (k Kind) String() string {
	switch k {
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	case KindLookup:
		return "lookup"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Command is a single operation of the generated stream. Value is only meaningful for inserts
type Command struct {
	Kind  Kind
	Key   string
	Value uint64
}

func Insert(key string, value uint64) Command {
	return Command{Kind: KindInsert, Key: key, Value: value}
}

func Delete(key string) Command {
	return Command{Kind: KindDelete, Key: key}
}

func Lookup(key string) Command {
	return Command{Kind: KindLookup, Key: key}
}

// AppendLine appends the line encoding of c to dst and returns the extended buffer.
//
//	insert: "+ <key> <value>\n"
//	delete: "- <key>\n"
//	lookup: "<key>" (no trailing newline)
//
// Consecutive lookups therefore run together in the output, consumers of this format depend on it
func AppendLine(dst []byte, c Command) []byte {
	switch c.Kind {
	case KindInsert:
		dst = append(dst, '+', ' ')
		dst = append(dst, c.Key...)
		dst = append(dst, ' ')
		dst = strconv.AppendUint(dst, c.Value, 10)
		dst = append(dst, '\n')
	case KindDelete:
		dst = append(dst, '-', ' ')
		dst = append(dst, c.Key...)
		dst = append(dst, '\n')
	case KindLookup:
		dst = append(dst, c.Key...)
	}
	return dst
}

// IsKeyByte reports whether b belongs to Alphabet
func IsKeyByte(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// ValidKey reports whether every byte of key belongs to Alphabet
func ValidKey(key string) bool {
	for i := 0; i < len(key); i++ {
		if !IsKeyByte(key[i]) {
			return false
		}
	}
	return true
}
