package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Netcracker/qubership-apihub-editor-session-service/secctx"
	"github.com/Netcracker/qubership-apihub-editor-session-service/view"
	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

// ApihubClient covers the Apihub calls the editor session service needs:
// authentication material and token checks.
type ApihubClient interface {
	GetRsaPublicKey(ctx context.Context) (*view.PublicKey, error)
	GetApiKeyByKey(apiKey string) (*view.ApihubApiKeyView, error)
	CheckAuthToken(ctx context.Context, token string) (bool, error)
}

func NewApihubClient(apihubUrl, accessToken string) ApihubClient {
	parsedApihubUrl, err := url.Parse(apihubUrl)
	apihubHost := ""
	if err != nil {
		log.Errorf("Can't parse apihub url: %v", err)
	} else {
		apihubHost = parsedApihubUrl.Hostname()
	}

	tr := http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	cl := http.Client{Transport: &tr, Timeout: time.Second * 60}
	client := resty.NewWithClient(&cl)
	if apihubHost != "" {
		client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(apihubHost))
	}

	return &apihubClientImpl{apihubUrl: apihubUrl, accessToken: accessToken, apihubHost: apihubHost, client: client}
}

type apihubClientImpl struct {
	apihubUrl   string
	accessToken string
	apihubHost  string
	client      *resty.Client
}

func (a apihubClientImpl) GetRsaPublicKey(ctx context.Context) (*view.PublicKey, error) {
	req := a.makeRequest(ctx)

	resp, err := req.Get(fmt.Sprintf("%s/api/v2/auth/publicKey", a.apihubUrl))
	if err != nil {
		return nil, fmt.Errorf("failed to get rsa public key: %s", err.Error())
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("failed to get rsa public key: status code %d", resp.StatusCode())
	}

	return &view.PublicKey{Value: resp.Body()}, nil
}

func (a apihubClientImpl) GetApiKeyByKey(apiKey string) (*view.ApihubApiKeyView, error) {
	req := a.client.R()
	req.SetHeader("api-key", apiKey)

	resp, err := req.Get(fmt.Sprintf("%s/api/v2/auth/apiKey", a.apihubUrl))
	if err != nil || resp.StatusCode() != http.StatusOK {
		if resp.StatusCode() == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	var apiKeyView view.ApihubApiKeyView
	err = json.Unmarshal(resp.Body(), &apiKeyView)
	if err != nil {
		return nil, err
	}

	return &apiKeyView, nil
}

func (a apihubClientImpl) CheckAuthToken(ctx context.Context, token string) (bool, error) {
	req := a.client.R()
	req.SetContext(ctx)
	req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", token))

	resp, err := req.Get(fmt.Sprintf("%s/api/v2/auth/token", a.apihubUrl))
	if err != nil {
		return false, fmt.Errorf("failed to check auth token: %s", err.Error())
	}

	return resp.StatusCode() == http.StatusOK, nil
}

func (a apihubClientImpl) makeRequest(ctx context.Context) *resty.Request {
	req := a.client.R()
	req.SetContext(ctx)
	if secctx.IsSystem(ctx) {
		req.SetHeader("api-key", a.accessToken)
	} else if token := secctx.GetUserToken(ctx); token != "" {
		req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", token))
	} else if apiKey := secctx.GetApiKey(ctx); apiKey != "" {
		req.SetHeader("api-key", apiKey)
	}
	return req
}
