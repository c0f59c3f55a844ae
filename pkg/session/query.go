package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/PiotrLaszczyk/graphql-requests/pkg/errors"
)

// File describes one upload: the filename sent to the server, the content
// source, and the declared MIME type. The session reads Content while
// assembling the request body and never closes it; the caller keeps
// ownership of the reader.
type File struct {
	Name        string
	Content     io.Reader
	ContentType string
}

// querySpec collects the parameters of one GraphQL operation
type querySpec struct {
	variables map[string]interface{}
	fileMap   map[string][]string
	files     map[string]File
}

// QueryOption configures a single Query call
type QueryOption func(*querySpec)

// WithVariables sets the GraphQL variables for this operation
func WithVariables(variables map[string]interface{}) QueryOption {
	return func(q *querySpec) {
		if q.variables == nil {
			q.variables = make(map[string]interface{})
		}
		for k, v := range variables {
			q.variables[k] = v
		}
	}
}

// WithVariable sets a single GraphQL variable
func WithVariable(key string, value interface{}) QueryOption {
	return func(q *querySpec) {
		if q.variables == nil {
			q.variables = make(map[string]interface{})
		}
		q.variables[key] = value
	}
}

// WithFiles attaches uploads to this operation. fileMap maps an identifier
// to the variable paths the file substitutes into (e.g. "variables.cv"),
// files maps the same identifiers to the file descriptors. Both must use the
// same key set, and the operation must also carry variables.
func WithFiles(fileMap map[string][]string, files map[string]File) QueryOption {
	return func(q *querySpec) {
		q.fileMap = fileMap
		q.files = files
	}
}

// Query sends one GraphQL operation (query or mutation) to the bound
// endpoint and returns the server response verbatim. Without files the body
// is a plain JSON object; with files it is a multipart/form-data body per
// the GraphQL multipart request convention.
//
// The query text is not parsed or validated, and GraphQL errors inside the
// response body are not inspected; the caller reads them from the response.
func (s *GraphQLSession) Query(ctx context.Context, queryString string, options ...QueryOption) (*http.Response, error) {
	spec := &querySpec{}
	for _, option := range options {
		option(spec)
	}

	if err := spec.validate(queryString); err != nil {
		return nil, err
	}

	// query without file upload
	if len(spec.files) == 0 {
		payload := map[string]interface{}{"query": queryString}
		if spec.variables != nil {
			payload["variables"] = spec.variables
		}

		body, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.WrapError(
				fmt.Errorf("marshal query payload: %w", err),
				errors.ErrSerialization,
				"encode GraphQL request",
			)
		}

		return s.send(ctx, http.MethodPost, bytes.NewReader(body), &requestSpec{
			contentType: "application/json",
		})
	}

	// query with file upload
	body, contentType, err := buildMultipartBody(queryString, spec.variables, spec.fileMap, spec.files)
	if err != nil {
		return nil, err
	}

	return s.send(ctx, http.MethodPost, body, &requestSpec{
		contentType: contentType,
	})
}

// validate fails fast on malformed input before any network I/O
func (spec *querySpec) validate(queryString string) error {
	if queryString == "" {
		return errors.WrapError(
			fmt.Errorf("query string must not be empty"),
			errors.ErrValidation,
			"validate query",
		)
	}

	// have all required arguments been supplied?
	if len(spec.fileMap) > 0 || len(spec.files) > 0 {
		if spec.variables == nil {
			return errors.WrapError(
				fmt.Errorf("file uploads require the variables argument"),
				errors.ErrValidation,
				"validate query",
			)
		}
		if len(spec.fileMap) == 0 {
			return errors.WrapError(
				fmt.Errorf("the files argument requires the file map argument"),
				errors.ErrValidation,
				"validate query",
			)
		}
		if len(spec.files) == 0 {
			return errors.WrapError(
				fmt.Errorf("the file map argument requires the files argument"),
				errors.ErrValidation,
				"validate query",
			)
		}
	}

	// are the files and the file map consistent?
	for key := range spec.fileMap {
		if _, ok := spec.files[key]; !ok {
			return errors.WrapError(
				fmt.Errorf("the file map and the files map must have the same keys"),
				errors.ErrValidation,
				"validate query",
			)
		}
	}
	for key := range spec.files {
		if _, ok := spec.fileMap[key]; !ok {
			return errors.WrapError(
				fmt.Errorf("the file map and the files map must have the same keys"),
				errors.ErrValidation,
				"validate query",
			)
		}
	}

	// are the file descriptors complete?
	for key, file := range spec.files {
		if file.Name == "" {
			return errors.WrapError(
				fmt.Errorf("file %q needs a filename", key),
				errors.ErrValidation,
				"validate query",
			)
		}
		if file.Content == nil {
			return errors.WrapError(
				fmt.Errorf("file %q needs a content reader", key),
				errors.ErrValidation,
				"validate query",
			)
		}
	}

	return nil
}
