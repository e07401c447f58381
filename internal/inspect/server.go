package inspect

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hpackcodec/internal/header"
	"hpackcodec/internal/hpack"
	"hpackcodec/internal/logging"
)

// Server exposes the codec over HTTP for one-off inspection: encode a
// header list to a hex block, decode a hex block back to fields, and
// browse the static table. Each request runs a fresh encoder/decoder
// pair, so blocks must be self-contained (no cross-request dynamic
// table state).
type Server struct {
	TableSize  uint32
	MaxHeaders uint32
	Encoding   header.Encoding
	Logger     logging.Logger
}

type encodeRequest struct {
	Headers []encodeField `json:"headers"`
}

type encodeField struct {
	Name      string   `json:"name"`
	Values    []string `json:"values"`
	Separator string   `json:"separator,omitempty"`
	Sensitive bool     `json:"sensitive,omitempty"`
}

type encodeResponse struct {
	Block string `json:"block"`
	Bytes int    `json:"bytes"`
}

type decodeRequest struct {
	Block string `json:"block"`
}

type decodeResponse struct {
	Headers []header.Decoded `json:"headers"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Router builds the chi router for the inspector API.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/encode", s.handleEncode)
	r.Post("/decode", s.handleDecode)
	r.Get("/static-table", s.handleStaticTable)
	return r
}

// ListenAndServe runs the inspector on the given port.
func (s *Server) ListenAndServe(port int) error {
	s.Logger.Log(logging.LogLevelInfo, "inspector listening on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), s.Router())
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	var req encodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	coll := header.Collection{Encoding: s.Encoding}
	for _, f := range req.Headers {
		name, err := header.CanonicalName(f.Name)
		if err != nil {
			s.fail(w, http.StatusBadRequest, err)
			return
		}
		coll.Fields = append(coll.Fields, header.Field{
			Name:      name,
			Values:    f.Values,
			Separator: f.Separator,
			Sensitive: f.Sensitive,
		})
	}

	enc := hpack.NewEncoder(s.TableSize)
	buf := hpack.NewBuffer(256)
	n, err := coll.EncodeInto(enc, buf)
	if err != nil {
		s.fail(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.reply(w, encodeResponse{Block: hex.EncodeToString(buf.Bytes()), Bytes: n})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	block, err := hex.DecodeString(req.Block)
	if err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid hex block: %v", err))
		return
	}

	headers, err := DecodeBlock(block, s.TableSize, s.MaxHeaders, s.Encoding)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, hpack.ErrHeadersTooLarge) {
			status = http.StatusRequestHeaderFieldsTooLarge
		}
		s.fail(w, status, err)
		return
	}
	s.reply(w, decodeResponse{Headers: headers})
}

func (s *Server) handleStaticTable(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Index int    `json:"index"`
		Name  string `json:"name"`
		Value string `json:"value,omitempty"`
	}
	var entries []entry
	for i := 1; ; i++ {
		f, ok := hpack.StaticEntry(i)
		if !ok {
			break
		}
		entries = append(entries, entry{Index: i, Name: f.Name, Value: f.Value})
	}
	s.reply(w, entries)
}

func (s *Server) reply(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.Logger.Log(logging.LogLevelError, "response writer failed: %s", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	s.Logger.Log(logging.LogLevelWarn, "request rejected: %s", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}

// DecodeBlock decodes one self-contained header block.
func DecodeBlock(block []byte, tableSize, maxHeaders uint32, enc header.Encoding) ([]header.Decoded, error) {
	dec := hpack.NewDecoder(tableSize, maxHeaders)
	coll := &header.Collector{Encoding: enc}
	if err := dec.Decode(block, true, coll); err != nil {
		return nil, err
	}
	return coll.Headers, nil
}
