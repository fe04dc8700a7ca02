package projection

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/rshade/pipesctl/internal/apierr"
)

// Kind is the value type of a field.
type Kind int

// Supported field kinds.
const (
	KindString Kind = iota
	KindInt32
	KindBool
	KindStringList
	KindStringMap
	// KindStringArray is a list whose flag is repeated instead of split on
	// commas, for values such as JSON patterns.
	KindStringArray
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt32:
		return "int32"
	case KindBool:
		return "bool"
	case KindStringList:
		return "list"
	case KindStringMap:
		return "map"
	case KindStringArray:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field describes one independently bindable request member.
type Field struct {
	// Name is the parameter name, e.g. "Name" or "SourceSqsBatchSize".
	Name string
	// Flag is the CLI flag bound to this field, without dashes.
	Flag string
	// Path is the dotted request path, e.g. "SourceParameters.SqsQueueParameters.BatchSize".
	Path string
	Kind Kind
	// Enum restricts string values when non-empty.
	Enum []string
	// ElementKey wraps each list element in an object under this key, for
	// members shaped like [{"Pattern": "..."}].
	ElementKey string
	Required   bool
	Usage      string
}

// BindFlags registers one flag per field on fs. Defaults are zero values; the
// bound state is taken from pflag's Changed bit, not from the value.
func BindFlags(fs *pflag.FlagSet, fields []Field) {
	for _, f := range fields {
		usage := f.Usage
		if len(f.Enum) > 0 {
			usage = fmt.Sprintf("%s (one of: %s)", usage, strings.Join(f.Enum, ", "))
		}

		switch f.Kind {
		case KindInt32:
			fs.Int32(f.Flag, 0, usage)
		case KindBool:
			fs.Bool(f.Flag, false, usage)
		case KindStringList:
			fs.StringSlice(f.Flag, nil, usage)
		case KindStringMap:
			fs.StringToString(f.Flag, nil, usage)
		case KindStringArray:
			fs.StringArray(f.Flag, nil, usage)
		default:
			fs.String(f.Flag, "", usage)
		}
	}
}

// FromFlags builds a ParameterSet from a parsed FlagSet. Every field is
// declared; only fields whose flag was set on the command line are bound.
func FromFlags(fs *pflag.FlagSet, fields []Field) (*ParameterSet, error) {
	set := NewParameterSet()

	for _, f := range fields {
		set.Declare(f.Name)

		fl := fs.Lookup(f.Flag)
		if fl == nil {
			return nil, fmt.Errorf("flag --%s for parameter %s is not registered", f.Flag, f.Name)
		}
		if !fl.Changed {
			continue
		}

		value, err := flagValue(fs, f)
		if err != nil {
			return nil, err
		}
		set.Bind(f.Name, value)
	}

	return set, nil
}

func flagValue(fs *pflag.FlagSet, f Field) (any, error) {
	switch f.Kind {
	case KindInt32:
		return fs.GetInt32(f.Flag)
	case KindBool:
		return fs.GetBool(f.Flag)
	case KindStringList:
		return fs.GetStringSlice(f.Flag)
	case KindStringMap:
		return fs.GetStringToString(f.Flag)
	case KindStringArray:
		return fs.GetStringArray(f.Flag)
	default:
		v, err := fs.GetString(f.Flag)
		if err != nil {
			return nil, err
		}
		if len(f.Enum) > 0 && !slices.Contains(f.Enum, v) {
			return nil, apierr.Configf("invalid value %q for --%s (one of: %s)",
				v, f.Flag, strings.Join(f.Enum, ", "))
		}
		return v, nil
	}
}
