package catalogapi

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// ErrMalformedResponse is returned when a response body is not one of the
// tolerated envelope shapes.
var ErrMalformedResponse = errors.New("malformed catalog response")

// UpstreamError is a failure reported by the Catalog API itself, either as a
// non-2xx status or a success:false envelope. Its message surfaces verbatim
// in cache error state.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string { return e.Message }

// envelope is the normalized form of a Catalog API response. data holds the
// raw JSON of the payload (array or object); pagination is present only on
// paginated list endpoints.
type envelope struct {
	data       jx.Raw
	pagination jx.Raw
}

// parseEnvelope accepts the response shapes the Catalog API is known to emit:
//
//   - {"success": true, "data": [...], "pagination": {...}}
//   - {"success": true, "latest_products": [...]} and friends
//   - {"data": [...]} without a success flag
//   - a bare JSON array
//
// A named payload key wins over "data" when both are present. An explicit
// success:false becomes an UpstreamError carrying the reported message.
func parseEnvelope(body []byte) (envelope, error) {
	d := jx.DecodeBytes(body)
	switch d.Next() {
	case jx.Array, jx.Object:
	default:
		return envelope{}, ErrMalformedResponse
	}
	if d.Next() == jx.Array {
		raw, err := d.Raw()
		if err != nil {
			return envelope{}, errors.Wrap(err, "read array payload")
		}
		return envelope{data: raw}, nil
	}

	var (
		hasSuccess bool
		success    bool
		message    string
		dataRaw    jx.Raw
		namedRaw   jx.Raw
		pagination jx.Raw
	)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "success":
			hasSuccess = true
			success, err = d.Bool()
		case "message", "error":
			message, err = d.Str()
		case "pagination":
			pagination, err = d.Raw()
		case "data":
			dataRaw, err = d.Raw()
		case "latest_products", "video_products", "photo_products",
			"products", "categories", "subcategories", "brands":
			var raw jx.Raw
			raw, err = d.Raw()
			if namedRaw == nil {
				namedRaw = raw
			}
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		return envelope{}, errors.Wrap(err, "parse envelope")
	}

	if hasSuccess && !success {
		if message == "" {
			message = "catalog request failed"
		}
		return envelope{}, &UpstreamError{Message: message}
	}

	data := namedRaw
	if data == nil {
		data = dataRaw
	}
	if data == nil {
		return envelope{}, ErrMalformedResponse
	}
	return envelope{data: data, pagination: pagination}, nil
}

// isArray reports whether the payload is a JSON array.
func (e envelope) isArray() bool {
	return jx.DecodeBytes(e.data).Next() == jx.Array
}
