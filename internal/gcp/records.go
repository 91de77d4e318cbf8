package gcp

import (
	"encoding/json"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	apperrors "github.com/pratik-mahalle/gcli/internal/pkg/errors"
	"github.com/pratik-mahalle/gcli/internal/resource"
)

// ProtoRecord converts a Compute message into the record shape the REST
// API returns: JSON field names, int64 values as strings.
func ProtoRecord(m proto.Message) (resource.Record, error) {
	b, err := protojson.Marshal(m)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeProviderAPI, "could not encode response")
	}
	return decodeRecord(b)
}

// StructRecord converts a google.golang.org/api response struct.
func StructRecord(v any) (resource.Record, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeProviderAPI, "could not encode response")
	}
	return decodeRecord(b)
}

func decodeRecord(b []byte) (resource.Record, error) {
	var r resource.Record
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeProviderAPI, "could not decode response")
	}
	if r == nil {
		r = resource.Record{}
	}
	return r, nil
}

func protoRecords[T proto.Message](items []T) ([]resource.Record, error) {
	out := make([]resource.Record, 0, len(items))
	for _, item := range items {
		r, err := ProtoRecord(item)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func structRecords[T any](items []T) ([]resource.Record, error) {
	out := make([]resource.Record, 0, len(items))
	for _, item := range items {
		r, err := StructRecord(item)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
