package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// HTTPClient sends requests straight into a router.
type HTTPClient struct {
	router *gin.Engine
	token  string
}

func NewHTTPClient(router *gin.Engine, token string) *HTTPClient {
	return &HTTPClient{router: router, token: token}
}

type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

func (c *HTTPClient) do(method, path string, body io.Reader, contentType string) *Response {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return &Response{StatusCode: w.Code, Body: w.Body.Bytes(), Headers: w.Header()}
}

func (c *HTTPClient) GET(path string) *Response {
	return c.do(http.MethodGet, path, nil, "")
}

func (c *HTTPClient) DELETE(path string) *Response {
	return c.do(http.MethodDelete, path, nil, "")
}

func (c *HTTPClient) POST(path string, body any) *Response {
	return c.sendJSON(http.MethodPost, path, body)
}

func (c *HTTPClient) PUT(path string, body any) *Response {
	return c.sendJSON(http.MethodPut, path, body)
}

func (c *HTTPClient) sendJSON(method, path string, body any) *Response {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			panic(fmt.Sprintf("marshal request body: %v", err))
		}
		reader = bytes.NewReader(b)
	}
	return c.do(method, path, reader, "application/json")
}

// FormFile is one file part of a multipart request.
type FormFile struct {
	Field   string
	Name    string
	Content []byte
}

// Multipart sends fields and files as multipart/form-data.
func (c *HTTPClient) Multipart(method, path string, fields map[string]string, files ...FormFile) *Response {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			panic(fmt.Sprintf("create form file: %v", err))
		}
		_, _ = part.Write(f.Content)
	}
	_ = w.Close()
	return c.do(method, path, &buf, w.FormDataContentType())
}
