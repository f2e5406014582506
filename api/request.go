package api

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/George1161/the-legit-website/errs"
	"github.com/George1161/the-legit-website/models"
	"github.com/George1161/the-legit-website/services"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	imageField = "image"
	// room for the text fields on top of the image itself
	formOverheadBytes = 1 << 20
	jsonBodyLimit     = 1 << 20
)

type submissionForm struct {
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	FullDescription  string `json:"fullDescription"`
	Social           string `json:"social"`
	Description      string `json:"description"`
}

func (f submissionForm) fields() models.Fields {
	return models.Fields{
		Title:            f.Title,
		ShortDescription: f.ShortDescription,
		FullDescription:  f.FullDescription,
		Social:           f.Social,
		Description:      f.Description,
	}
}

// decodedSubmission holds the parsed fields and the optional image. close
// must be called once the image has been consumed.
type decodedSubmission struct {
	fields models.Fields
	image  *services.ImageUpload
	close  func()
}

// decodeSubmission accepts multipart, urlencoded and JSON bodies.
func decodeSubmission(w http.ResponseWriter, r *http.Request, maxImageBytes int64) (decodedSubmission, error) {
	noop := decodedSubmission{close: func() {}}
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+formOverheadBytes)
		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			return noop, bodyError("multipart", maxImageBytes+formOverheadBytes, err)
		}
		sub := decodedSubmission{fields: formFields(r), close: func() { _ = r.MultipartForm.RemoveAll() }}

		file, header, err := r.FormFile(imageField)
		if errors.Is(err, http.ErrMissingFile) {
			return sub, nil
		}
		if err != nil {
			sub.close()
			return noop, errs.NewMalformedPayloadError("multipart", err)
		}
		image, err := imageUpload(file, header, maxImageBytes)
		if err != nil {
			file.Close()
			sub.close()
			return noop, err
		}
		sub.image = image
		removeAll := sub.close
		sub.close = func() {
			file.Close()
			removeAll()
		}
		return sub, nil

	case "application/x-www-form-urlencoded":
		r.Body = http.MaxBytesReader(w, r.Body, jsonBodyLimit)
		if err := r.ParseForm(); err != nil {
			return noop, bodyError("form", jsonBodyLimit, err)
		}
		return decodedSubmission{fields: formFields(r), close: func() {}}, nil

	default:
		var form submissionForm
		if err := decodeJSON(w, r, &form); err != nil {
			return noop, err
		}
		return decodedSubmission{fields: form.fields(), close: func() {}}, nil
	}
}

func formFields(r *http.Request) models.Fields {
	return models.Fields{
		Title:            r.FormValue("title"),
		ShortDescription: r.FormValue("shortDescription"),
		FullDescription:  r.FormValue("fullDescription"),
		Social:           r.FormValue("social"),
		Description:      r.FormValue("description"),
	}
}

func imageUpload(file multipart.File, header *multipart.FileHeader, maxImageBytes int64) (*services.ImageUpload, error) {
	if header.Size > maxImageBytes {
		return nil, errs.NewMaxBodySizeExceededError(maxImageBytes)
	}
	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errs.NewInvalidFieldError(imageField, "only image files are accepted")
	}
	return &services.ImageUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}, nil
}

// decodeJSON reads one JSON value. An empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, jsonBodyLimit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return bodyError("json", jsonBodyLimit, err)
	}
	return nil
}

func bodyError(payloadType string, limit int64, err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return errs.NewMaxBodySizeExceededError(limit)
	}
	return errs.NewMalformedPayloadError(payloadType, err)
}

// projectIDParam reads {projectID}. Unparseable ids cannot name a project.
func projectIDParam(r *http.Request) (uuid.UUID, error) {
	return parseProjectID(chi.URLParam(r, "projectID"))
}

func parseProjectID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, errs.NewNotFound("project")
	}
	return id, nil
}

// bodyProjectID reads the {id} body used by the vote and moderation endpoints.
func bodyProjectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	var req idRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return uuid.Nil, err
	}
	return parseProjectID(req.ID)
}
