package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strconv"
	"strings"

	"github.com/PiotrLaszczyk/graphql-requests/pkg/errors"
)

// buildMultipartBody assembles an upload request body per the GraphQL
// multipart request convention (jaydenseric/graphql-multipart-request-spec):
// an "operations" field with the JSON operation, a "map" field naming the
// variable paths each file substitutes into, and one part per file. It
// returns the body and the content type carrying the boundary.
func buildMultipartBody(
	queryString string,
	variables map[string]interface{},
	fileMap map[string][]string,
	files map[string]File,
) (io.Reader, string, error) {
	// The operations JSON must carry null at every file path; the binary
	// content travels in its own part. Null the mapped paths on a copy so
	// the caller's variables stay untouched.
	nulled := cloneValue(variables).(map[string]interface{})
	for _, paths := range fileMap {
		for _, path := range paths {
			setNullPath(nulled, path)
		}
	}

	operations, err := json.Marshal(map[string]interface{}{
		"query":     queryString,
		"variables": nulled,
	})
	if err != nil {
		return nil, "", errors.WrapError(
			fmt.Errorf("marshal operations: %w", err),
			errors.ErrSerialization,
			"encode multipart request",
		)
	}

	mapJSON, err := json.Marshal(fileMap)
	if err != nil {
		return nil, "", errors.WrapError(
			fmt.Errorf("marshal file map: %w", err),
			errors.ErrSerialization,
			"encode multipart request",
		)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("operations", string(operations)); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("map", string(mapJSON)); err != nil {
		return nil, "", err
	}

	// Sort identifiers so the body layout is deterministic
	ids := make([]string, 0, len(files))
	for id := range files {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		file := files[id]
		part, err := createFilePart(writer, id, file)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, file.Content); err != nil {
			return nil, "", fmt.Errorf("read file %q: %w", id, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return &buf, writer.FormDataContentType(), nil
}

var partQuoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// createFilePart creates a form-data part carrying the caller's declared
// content type. multipart.Writer.CreateFormFile would hardcode
// application/octet-stream.
func createFilePart(writer *multipart.Writer, id string, file File) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(
		`form-data; name="%s"; filename="%s"`,
		partQuoteEscaper.Replace(id),
		partQuoteEscaper.Replace(file.Name),
	))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	return writer.CreatePart(header)
}

// setNullPath walks a dotted path like "variables.cv" or "variables.docs.1"
// into the variables structure and sets the addressed value to null. Paths
// that don't resolve are left alone; the server rejects a bad map either way.
func setNullPath(variables map[string]interface{}, path string) {
	segments := strings.Split(path, ".")
	if len(segments) < 2 || segments[0] != "variables" {
		return
	}
	segments = segments[1:]

	var current interface{} = variables
	for i, segment := range segments {
		last := i == len(segments)-1

		switch node := current.(type) {
		case map[string]interface{}:
			if last {
				node[segment] = nil
				return
			}
			next, ok := node[segment]
			if !ok {
				return
			}
			current = next
		case []interface{}:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return
			}
			if last {
				node[index] = nil
				return
			}
			current = node[index]
		default:
			return
		}
	}
}

// cloneValue deep-copies the JSON-shaped parts of a value (maps and slices);
// scalars are shared, which is fine since they are never mutated.
func cloneValue(v interface{}) interface{} {
	switch node := v.(type) {
	case map[string]interface{}:
		clone := make(map[string]interface{}, len(node))
		for k, child := range node {
			clone[k] = cloneValue(child)
		}
		return clone
	case []interface{}:
		clone := make([]interface{}, len(node))
		for i, child := range node {
			clone[i] = cloneValue(child)
		}
		return clone
	default:
		return v
	}
}
