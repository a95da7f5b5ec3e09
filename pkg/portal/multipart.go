package portal

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"sync"

	"github.com/linskybing/scan2cad/internal/domain/upload"
)

// Progress receives upload percentages in 0..100, never decreasing.
type Progress func(percent int)

type formPart struct {
	field string
	value string
	file  *upload.Candidate
}

func fieldPart(name, value string) formPart { return formPart{field: name, value: value} }

func filePart(name string, c upload.Candidate) formPart {
	return formPart{field: name, file: &c}
}

// progressWriter counts file bytes and reports whole-percent steps.
type progressWriter struct {
	mu      sync.Mutex
	total   int64
	written int64
	last    int
	fn      Progress
}

func (p *progressWriter) add(n int64) {
	if p.fn == nil || p.total <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.written += n
	pct := int(p.written * 100 / p.total)
	// 100 is reserved for the server's acknowledgement.
	if pct > 99 {
		pct = 99
	}
	if pct > p.last {
		p.last = pct
		p.fn(pct)
	}
}

func (p *progressWriter) done() {
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last < 100 {
		p.last = 100
		p.fn(100)
	}
}

type countingReader struct {
	r io.Reader
	p *progressWriter
}

func (c *countingReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	c.p.add(int64(n))
	return n, err
}

// sendMultipart streams parts as multipart/form-data without buffering file
// contents in memory.
func (c *Client) sendMultipart(ctx context.Context, method, path string, parts []formPart, progress Progress, out any) error {
	pw := &progressWriter{fn: progress}
	for _, p := range parts {
		if p.file != nil {
			pw.total += p.file.Size
		}
	}

	pr, pipeW := io.Pipe()
	defer pr.Close()
	mw := multipart.NewWriter(pipeW)

	writeErr := make(chan error, 1)
	go func() {
		err := writeParts(mw, parts, pw)
		if err == nil {
			err = mw.Close()
		}
		writeErr <- err
		pipeW.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, method, path, url.Values{}, pr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	if err := c.send(c.upload, req, out); err != nil {
		select {
		case werr := <-writeErr:
			if werr != nil && werr != io.ErrClosedPipe {
				return fmt.Errorf("prepare upload: %w", werr)
			}
		default:
		}
		return err
	}
	pw.done()
	return nil
}

func writeParts(mw *multipart.Writer, parts []formPart, pw *progressWriter) error {
	for _, p := range parts {
		if p.file == nil {
			if err := mw.WriteField(p.field, p.value); err != nil {
				return err
			}
			continue
		}
		if err := writeFile(mw, p.field, *p.file, pw); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(mw *multipart.Writer, field string, c upload.Candidate, pw *progressWriter) error {
	if c.Open == nil {
		return fmt.Errorf("%s has no content", c.Name)
	}
	rc, err := c.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", c.Name, err)
	}
	defer rc.Close()
	w, err := mw.CreateFormFile(field, c.Name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, &countingReader{r: rc, p: pw})
	return err
}
