package resource

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
)

const maxSchemaDepth = 32

// Schema describes the shape of a wire message.
type Schema interface {
	Name() string
	Fields() []Field
}

// Field is one member of a Schema. Message is nil for scalar and map
// fields.
type Field struct {
	Name     string
	Repeated bool
	Message  Schema
}

// MessageSchema is a hand-built Schema.
type MessageSchema struct {
	name   string
	fields []Field
}

// Message returns a MessageSchema with the given fields.
func Message(name string, fields ...Field) *MessageSchema {
	return &MessageSchema{name: name, fields: fields}
}

// Add appends fields. It allows building self-referencing schemas.
func (m *MessageSchema) Add(fields ...Field) *MessageSchema {
	m.fields = append(m.fields, fields...)
	return m
}

func (m *MessageSchema) Name() string    { return m.name }
func (m *MessageSchema) Fields() []Field { return m.fields }

type protoSchema struct {
	md protoreflect.MessageDescriptor
}

// ProtoSchema adapts a protobuf message descriptor. Field names are the
// JSON names, which are the names used on the REST wire.
func ProtoSchema(md protoreflect.MessageDescriptor) Schema {
	return protoSchema{md: md}
}

func (p protoSchema) Name() string {
	return string(p.md.FullName())
}

func (p protoSchema) Fields() []Field {
	fds := p.md.Fields()
	out := make([]Field, 0, fds.Len())
	for i := 0; i < fds.Len(); i++ {
		fd := fds.Get(i)
		f := Field{Name: fd.JSONName(), Repeated: fd.IsList()}
		if !fd.IsMap() && (fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind) {
			f.Message = ProtoSchema(fd.Message())
		}
		out = append(out, f)
	}
	return out
}

type structSchema struct {
	t reflect.Type
}

// StructSchema adapts a Go struct type decoded with encoding/json, such as
// the google.golang.org/api REST types. Field names come from json tags.
func StructSchema(t reflect.Type) Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return structSchema{t: t}
}

func (s structSchema) Name() string {
	return s.t.String()
}

func (s structSchema) Fields() []Field {
	if s.t.Kind() != reflect.Struct {
		return nil
	}
	var out []Field
	for i := 0; i < s.t.NumField(); i++ {
		sf := s.t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := strings.Split(sf.Tag.Get("json"), ",")[0]
		if name == "-" {
			continue
		}
		if name == "" {
			if sf.Anonymous {
				continue
			}
			name = sf.Name
		}

		ft := sf.Type
		f := Field{Name: name}
		if ft.Kind() == reflect.Slice && ft.Elem().Kind() != reflect.Uint8 {
			f.Repeated = true
			ft = ft.Elem()
		}
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if ft.Kind() == reflect.Struct {
			f.Message = structSchema{t: ft}
		}
		out = append(out, f)
	}
	return out
}

// Flatten lists every leaf field path of schema in ascending order without
// duplicates. Nested messages are prefixed with "name." or "name[]." and
// repeated leaves end in "[]". Cyclic or overly deep schemas fail with a
// schema error.
func Flatten(schema Schema) ([]string, error) {
	var paths []string
	if err := flatten(schema, "", nil, &paths); err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return compact(paths), nil
}

func flatten(schema Schema, prefix string, stack []string, out *[]string) error {
	name := schema.Name()
	for _, seen := range stack {
		if seen == name {
			return apperrors.Schema(fmt.Sprintf("cyclic message schema: %s -> %s", strings.Join(stack, " -> "), name))
		}
	}
	if len(stack) >= maxSchemaDepth {
		return apperrors.Schema(fmt.Sprintf("message schema %s nests deeper than %d levels", stack[0], maxSchemaDepth))
	}
	stack = append(stack, name)

	fields := append([]Field(nil), schema.Fields()...)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	for _, f := range fields {
		path := prefix + f.Name
		if f.Repeated {
			path += "[]"
		}
		if f.Message == nil {
			*out = append(*out, path)
			continue
		}
		if err := flatten(f.Message, path+".", stack, out); err != nil {
			return err
		}
	}
	return nil
}

func compact(sorted []string) []string {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, s := range sorted[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
