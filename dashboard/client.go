package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BerniceZTT/breezy_end/models"
	"github.com/BerniceZTT/breezy_end/utils"

	"github.com/bytedance/sonic"
)

// DefaultAPIURL 本地代理地址
const DefaultAPIURL = "http://localhost:3001/api"

// Client 代理服务的客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption 客户端选项
type ClientOption func(*Client)

// WithHTTPClient 使用自定义 http.Client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient 创建客户端，baseURL 为空时使用本地地址
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 2 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestError 代理返回的非 2xx 响应
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return e.Message
}

// Contacts 联系人列表
func (c *Client) Contacts(ctx context.Context) ([]models.Contact, error) {
	var page models.ContactPage
	if err := c.do(ctx, http.MethodGet, "/contacts", nil, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return []models.Contact{}, nil
	}
	return page.Results, nil
}

// CreateContact 创建联系人
func (c *Client) CreateContact(ctx context.Context, properties models.Properties) (*models.Contact, error) {
	var contact models.Contact
	req := models.CreateContactRequest{Properties: properties}
	if err := c.do(ctx, http.MethodPost, "/contacts", req, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// Deals 全部交易（含联系人关联）
func (c *Client) Deals(ctx context.Context) ([]models.Deal, error) {
	return c.dealPage(ctx, "/deals")
}

// ContactDeals 联系人的交易
func (c *Client) ContactDeals(ctx context.Context, contactID string) ([]models.Deal, error) {
	return c.dealPage(ctx, "/contacts/"+url.PathEscape(contactID)+"/deals")
}

func (c *Client) dealPage(ctx context.Context, path string) ([]models.Deal, error) {
	var page models.DealPage
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		return []models.Deal{}, nil
	}
	return page.Results, nil
}

// CreateDeal 创建交易
func (c *Client) CreateDeal(ctx context.Context, req models.CreateDealRequest) (*models.Deal, error) {
	var deal models.Deal
	if err := c.do(ctx, http.MethodPost, "/deals", req, &deal); err != nil {
		return nil, err
	}
	return &deal, nil
}

// AnalyseCustomer 客户分析
func (c *Client) AnalyseCustomer(ctx context.Context, contact *models.Contact, deals []models.Deal) (*models.CustomerAnalysis, error) {
	var out models.CustomerAnalysis
	req := models.AnalyseCustomerRequest{Contact: contact, Deals: deals}
	if err := c.do(ctx, http.MethodPost, "/ai/analyse-customer", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyseBusiness 业务分析
func (c *Client) AnalyseBusiness(ctx context.Context, contacts []models.Contact, deals []models.Deal) (*models.BusinessAnalysis, error) {
	var out models.BusinessAnalysis
	req := models.AnalyseBusinessRequest{Contacts: contacts, Deals: deals}
	if err := c.do(ctx, http.MethodPost, "/ai/analyse-business", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AIStatus AI 服务状态
func (c *Client) AIStatus(ctx context.Context) (*models.AIStatus, error) {
	var out models.AIStatus
	if err := c.do(ctx, http.MethodGet, "/ai/status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("序列化请求体失败: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reqErr := &RequestError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, respBody)}
		utils.Logger.Debug().Str("path", path).Int("status", resp.StatusCode).Msg(reqErr.Message)
		return reqErr
	}
	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}
	return nil
}

// errorMessage 依次取 error.message、message、error 字符串，最后退化为状态码
func errorMessage(status int, body []byte) string {
	var payload map[string]interface{}
	if sonic.Unmarshal(body, &payload) == nil {
		if nested, ok := payload["error"].(map[string]interface{}); ok {
			if msg, ok := nested["message"].(string); ok && msg != "" {
				return msg
			}
		}
		if msg, ok := payload["message"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := payload["error"].(string); ok && msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("Server error: %d", status)
}
