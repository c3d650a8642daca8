package httputil

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/goccy/go-json"
)

func readResponseBody(resp *http.Response) ([]byte, error) {
	respBody, err := io.ReadAll(resp.Body)
	if nil != err {
		return nil, fmt.Errorf("failed to read response body: %v", err)
	}

	return respBody, nil
}

func ReadResponseBody(resp *http.Response) ([]byte, error) {
	respBody, err := readResponseBody(resp)
	if nil != err {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("unexpected empty response body")
		}

		return nil, err
	}

	return respBody, nil
}

func ReadOptionalResponseBody(resp *http.Response) ([]byte, error) {
	respBody, err := readResponseBody(resp)
	if nil != err && !errors.Is(err, io.EOF) {
		return nil, err
	}

	return respBody, nil
}

// ErrorMessageOf extracts the human-readable message from a JSON error
// body, if one is present.
func ErrorMessageOf(b []byte) (string, error) {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(b, &body); nil != err {
		return "", fmt.Errorf("failed to decode error response body: %v", err)
	}

	if len(body.Message) > 0 {
		return body.Message, nil
	}

	return body.Error, nil
}

// ContentTypeOf returns the declared media type of a response without
// parameters, or an empty string when the header is absent or malformed.
func ContentTypeOf(resp *http.Response) string {
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(ct)
	if nil != err {
		return ""
	}

	return mediaType
}
