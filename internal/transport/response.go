package transport

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"

	"github.com/axioparse/axioparse/pkg/errors"
)

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 512

// ReadBody reads and closes the response body, returning an APIError for
// non-200 responses.
func ReadBody(service string, resp *http.Response) ([]byte, error) {
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		apiErr := &errors.APIError{
			Service:    service,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
		if resp.Request != nil && resp.Request.URL != nil {
			apiErr.Endpoint = resp.Request.URL.Path
		}
		return nil, apiErr
	}

	return body, nil
}

// DecodeJSON reads the response and unmarshals JSON into target.
func DecodeJSON(service string, resp *http.Response, target any) error {
	body, err := ReadBody(service, resp)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}
	return nil
}

// DecodeXML reads the response and unmarshals XML into target.
func DecodeXML(service string, resp *http.Response, target any) error {
	body, err := ReadBody(service, resp)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(body, target); err != nil {
		return errors.WrapParse("xml", "response", err)
	}
	return nil
}
