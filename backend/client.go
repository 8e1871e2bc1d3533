// Package backend is the HTTP client for the upstream reservation API.
// Every call is bearer-token authenticated with the caller's token; the
// gateway never holds credentials of its own.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"venuebook/models"
)

type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// NewClient builds a client for the reservation backend rooted at baseURL
// (including the /api prefix).
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// GetFacility fetches a facility with its room/package catalogue.
func (c *Client) GetFacility(ctx context.Context, token string, facilityID int) (models.Facility, error) {
	path := "/Facility/" + strconv.Itoa(facilityID)
	req, err := c.newRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return models.Facility{}, err
	}

	var facility models.Facility
	if err := c.doJSON(req, &facility); err != nil {
		return models.Facility{}, err
	}
	return facility, nil
}

// CheckAvailability asks the backend whether the item/date combination is bookable.
func (c *Client) CheckAvailability(ctx context.Context, token string, in AvailabilityRequest) (models.AvailabilityResult, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/Reservation/checkAvailability", token, in)
	if err != nil {
		return models.AvailabilityResult{}, err
	}

	var result models.AvailabilityResult
	if err := c.doJSON(req, &result); err != nil {
		return models.AvailabilityResult{}, err
	}
	return result, nil
}

// CalculateTotal asks the backend to price the current selection.
func (c *Client) CalculateTotal(ctx context.Context, token string, in TotalRequest) (float64, error) {
	body := calculateTotalBody{CalculateTotalDto: in}
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/Reservation/calculateTotal", token, body)
	if err != nil {
		return 0, err
	}

	var env totalEnvelope
	if err := c.doJSON(req, &env); err != nil {
		return 0, err
	}
	return env.Value.Total, nil
}

// CreateReservation submits the assembled reservation and returns the new
// reservation id.
func (c *Client) CreateReservation(ctx context.Context, token string, payload models.ReservationPayload) (int, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/Reservation/createReservation", token, payload)
	if err != nil {
		return 0, err
	}

	var env reservationEnvelope
	if err := c.doJSON(req, &env); err != nil {
		return 0, err
	}
	if !env.IsSuccess {
		msg := env.Error.Message
		if msg == "" {
			msg = "reservation was rejected by the backend"
		}
		return 0, fmt.Errorf("create reservation: %s", msg)
	}
	return env.Value.ReservationID, nil
}

// UploadDocument sends a document as multipart form data.
func (c *Client) UploadDocument(ctx context.Context, token string, in UploadDocumentRequest) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if in.ReservationID != 0 {
		if err := w.WriteField("ReservationId", strconv.Itoa(in.ReservationID)); err != nil {
			return err
		}
	}
	if in.PaymentID != 0 {
		if err := w.WriteField("PaymentId", strconv.Itoa(in.PaymentID)); err != nil {
			return err
		}
	}
	if err := w.WriteField("Document.DocumentType", string(in.DocumentType)); err != nil {
		return err
	}
	part, err := w.CreateFormFile("Document.File", in.FileName)
	if err != nil {
		return err
	}
	if _, err := part.Write(in.File); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/Reservation/uploadDocument", token, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.doStatus(req)
}

func (c *Client) newJSONRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, method, path, token, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	base.Path = strings.TrimSuffix(base.Path, "/") + "/" + strings.TrimPrefix(path, "/")

	req, err := http.NewRequestWithContext(ctx, method, base.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) doJSON(req *http.Request, dest any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

func (c *Client) doStatus(req *http.Request) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return nil
}
