// Package notify delivers availability alerts to listing owners.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stayalert/models"
	"stayalert/utils"
)

// Notifier sends one availability alert using the owner's stored
// credential. The returned bool reports actual delivery.
type Notifier interface {
	SendAvailabilityAlert(ctx context.Context, token string, ev models.TransitionEvent) (bool, error)
}

const memoSendPath = "/v2/api/talk/memo/default/send"

// Kakao delivers alerts through the KakaoTalk "to me" memo API, using
// each owner's stored access token.
type Kakao struct {
	baseURL string
	client  *http.Client
	logger  *utils.Logger
}

func NewKakao(baseURL string, logger *utils.Logger) *Kakao {
	return &Kakao{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func (k *Kakao) SendAvailabilityAlert(ctx context.Context, token string, ev models.TransitionEvent) (bool, error) {
	template := map[string]any{
		"object_type": "text",
		"text": fmt.Sprintf("🏠 %s\n%s ~ %s 예약 가능!\n가격: %s",
			ev.ListingName,
			ev.CheckIn.Format("2006-01-02"),
			ev.CheckOut.Format("2006-01-02"),
			ev.Price),
		"link": map[string]any{
			"web_url":        ev.CheckURL,
			"mobile_web_url": ev.CheckURL,
		},
		"button_title": "숙소 보기",
	}

	payload, err := json.Marshal(template)
	if err != nil {
		return false, fmt.Errorf("kakao: marshal template: %w", err)
	}

	form := url.Values{"template_object": {string(payload)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		k.baseURL+memoSendPath, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("kakao: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := k.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("kakao: send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("kakao: send: unexpected status %d", resp.StatusCode)
	}

	k.logger.Debug("[notify] alert delivered for listing %d", ev.ListingID)
	return true, nil
}
