package handlers

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"math/big"
	"net/http"
	"strings"

	"spacetime-server/internal/instant"
	"spacetime-server/internal/shared/errors"
	"spacetime-server/internal/shared/response"
)

type InstantHandler struct {
	defaultLayout string
}

func NewInstantHandler(defaultLayout string) *InstantHandler {
	if defaultLayout == "" {
		defaultLayout = instant.DefaultLayout
	}
	return &InstantHandler{defaultLayout: defaultLayout}
}

// FormatRequest describes an instant the way FromOffset takes it: a year
// offset plus at most one of Value, Fields or Args.
type FormatRequest struct {
	YearsOffset string          `json:"years_offset,omitempty"`
	Value       json.RawMessage `json:"value,omitempty"`
	Fields      *instant.Fields `json:"fields,omitempty"`
	Args        []json.Number   `json:"args,omitempty"`
	Layout      string          `json:"layout,omitempty"`
}

type InstantResponse struct {
	Exact       string `json:"exact"`
	BlockOffset string `json:"block_offset"`
	NativeNanos int64  `json:"native_nanos"`
	Year        string `json:"year"`
	Display     string `json:"display"`
}

func NewInstantResponse(inst instant.Instant, display string) InstantResponse {
	return InstantResponse{
		Exact:       inst.Exact().String(),
		BlockOffset: inst.BlockOffset().String(),
		NativeNanos: inst.NativeNanos(),
		Year:        inst.Year().String(),
		Display:     display,
	}
}

func (h *InstantHandler) Format(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "format_instant")

	if r.Method != http.MethodPost {
		response.Error(w, r, logger, errors.MethodNotAllowed(r.Method))
		return
	}

	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var req FormatRequest
	if err := dec.Decode(&req); err != nil {
		response.Error(w, r, logger, errors.WrapValidation("invalid request body", err))
		return
	}

	inst, err := req.instant()
	if err != nil {
		response.Error(w, r, logger, Error(err))
		return
	}

	layout := req.Layout
	if layout == "" {
		layout = h.defaultLayout
	}

	display, err := inst.Format(layout)
	if err != nil {
		response.Error(w, r, logger, Error(err))
		return
	}

	response.Success(w, http.StatusOK, NewInstantResponse(inst, display))
}

func (req FormatRequest) instant() (instant.Instant, error) {
	offset := new(big.Int)
	if s := strings.TrimSpace(req.YearsOffset); s != "" {
		if _, ok := offset.SetString(strings.TrimPrefix(s, "+"), 10); !ok {
			return instant.Instant{}, errors.Validationf("invalid years_offset %q", req.YearsOffset)
		}
	}

	given := 0
	if len(req.Value) > 0 {
		given++
	}
	if req.Fields != nil {
		given++
	}
	if len(req.Args) > 0 {
		given++
	}
	if given > 1 {
		return instant.Instant{}, errors.Validation("give at most one of value, fields and args")
	}

	switch {
	case len(req.Value) > 0:
		v, err := decodeValue(req.Value)
		if err != nil {
			return instant.Instant{}, err
		}
		return instant.FromOffset(offset, v)
	case req.Fields != nil:
		return instant.FromOffset(offset, *req.Fields)
	case len(req.Args) > 0:
		args := make([]any, len(req.Args))
		for i, n := range req.Args {
			v, ok := new(big.Int).SetString(n.String(), 10)
			if !ok {
				return instant.Instant{}, errors.Validationf("argument %d must be an integer, got %s", i, n)
			}
			if i == 0 {
				args[i] = v
				continue
			}
			if !v.IsInt64() {
				return instant.Instant{}, errors.Validationf("argument %d out of range: %s", i, n)
			}
			args[i] = int(v.Int64())
		}
		return instant.FromOffset(offset, args...)
	default:
		return instant.FromOffset(offset)
	}
}

// decodeValue accepts a JSON string (any form instant.ParseString takes) or
// a JSON integer counting nanoseconds since the epoch.
func decodeValue(raw json.RawMessage) (any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, errors.WrapValidation("invalid value", err)
		}
		return s, nil
	}

	v, ok := new(big.Int).SetString(string(raw), 10)
	if !ok {
		return nil, errors.Validationf("value must be a string or an integer, got %s", raw)
	}
	return v, nil
}

// Error maps instant errors to application errors.
func Error(err error) error {
	var (
		ambiguity *instant.ConstructionAmbiguityError
		format    *instant.FormatError
	)
	switch {
	case errors.GetType(err) != errors.ErrorTypeInternal:
		return err
	case instant.IsUnsupported(err):
		return errors.Unsupported("operation not supported", err)
	case stderrors.As(err, &ambiguity), stderrors.As(err, &format),
		stderrors.Is(err, instant.ErrInvalidValue), stderrors.Is(err, instant.ErrOutOfNativeRange):
		return errors.WrapValidation("invalid instant", err)
	default:
		return errors.WrapInternal("instant failure", err)
	}
}
