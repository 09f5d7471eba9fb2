package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrPincodeNotServiceable = errors.New("pincode not serviceable")
	ErrShippingNotConfigured = errors.New("shipping provider not configured")
)

// DefaultZone is used when the courier does not return a usable zone.
const DefaultZone = "F"

var zonePattern = regexp.MustCompile(`^[A-F]\d*$`)

// PostalCode is the serviceability record of a single pincode.
type PostalCode struct {
	Pin       json.Number `json:"pin"`
	City      string      `json:"city"`
	District  string      `json:"district"`
	StateCode string      `json:"state_code"`
	PrePaid   string      `json:"pre_paid"`
	Cash      string      `json:"cash"`
	Pickup    string      `json:"pickup"`
	COD       string      `json:"cod"`
	Repl      string      `json:"repl"`
	IsODA     string      `json:"is_oda"`
}

type ShippingProvider interface {
	CheckPincode(ctx context.Context, pincode string) (*PostalCode, error)
	Zone(ctx context.Context, originPincode, destinationPincode string) (string, error)
	Waybills(ctx context.Context, count int) ([]string, error)
}

type DelhiveryClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

var _ ShippingProvider = (*DelhiveryClient)(nil)

func NewDelhiveryClient(baseURL, apiKey string, timeout time.Duration) *DelhiveryClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DelhiveryClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (dc *DelhiveryClient) CheckPincode(ctx context.Context, pincode string) (*PostalCode, error) {
	var resp struct {
		DeliveryCodes []struct {
			PostalCode PostalCode `json:"postal_code"`
		} `json:"delivery_codes"`
	}
	query := url.Values{"filter_codes": {pincode}}
	if err := dc.get(ctx, "/c/api/pin-codes/json/", query, &resp); err != nil {
		return nil, err
	}
	if len(resp.DeliveryCodes) == 0 {
		return nil, ErrPincodeNotServiceable
	}
	return &resp.DeliveryCodes[0].PostalCode, nil
}

// Zone returns the courier zone letter between two pincodes.
func (dc *DelhiveryClient) Zone(ctx context.Context, originPincode, destinationPincode string) (string, error) {
	var charges []struct {
		Zone string `json:"zone"`
	}
	query := url.Values{
		"md":    {"S"},
		"ss":    {"DTO"},
		"o_pin": {originPincode},
		"d_pin": {destinationPincode},
		"cgm":   {"500"},
	}
	if err := dc.get(ctx, "/api/kinko/v1/invoice/charges/.json", query, &charges); err != nil {
		return "", err
	}
	if len(charges) == 0 {
		return DefaultZone, nil
	}
	return NormalizeZone(charges[0].Zone), nil
}

func (dc *DelhiveryClient) Waybills(ctx context.Context, count int) ([]string, error) {
	var raw json.RawMessage
	query := url.Values{"count": {strconv.Itoa(count)}}
	if err := dc.get(ctx, "/waybill/api/bulk/json/", query, &raw); err != nil {
		return nil, err
	}
	return parseWaybills(raw)
}

func (dc *DelhiveryClient) get(ctx context.Context, path string, query url.Values, dest interface{}) error {
	if dc.APIKey == "" {
		return ErrShippingNotConfigured
	}

	endpoint := fmt.Sprintf("%s%s?%s", dc.BaseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+dc.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := dc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// NormalizeZone keeps the zone letter of values like "D2" and falls back to
// DefaultZone for anything outside A-F.
func NormalizeZone(zone string) string {
	zone = strings.TrimSpace(zone)
	if zonePattern.MatchString(zone) {
		return zone[:1]
	}
	return DefaultZone
}

// EstimatedDays is the transit time for a zone.
func EstimatedDays(zone string) int {
	switch zone {
	case "A":
		return 5
	case "B":
		return 7
	default:
		return 9
	}
}

// The bulk endpoint answers with either a comma separated string or a list.
func parseWaybills(raw json.RawMessage) ([]string, error) {
	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil {
		var waybills []string
		for _, w := range strings.Split(joined, ",") {
			if w = strings.TrimSpace(w); w != "" {
				waybills = append(waybills, w)
			}
		}
		return waybills, nil
	}

	var list []interface{}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal waybills: %w", err)
	}
	waybills := make([]string, 0, len(list))
	for _, w := range list {
		waybills = append(waybills, fmt.Sprint(w))
	}
	return waybills, nil
}
