package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/BerniceZTT/breezy_end/config"
	"github.com/BerniceZTT/breezy_end/models"
	"github.com/BerniceZTT/breezy_end/utils"

	"github.com/bytedance/sonic"
)

const (
	// HubSpot 对象路径
	ContactsPath       = "/crm/v3/objects/contacts"
	DealsPath          = "/crm/v3/objects/deals"
	DealsBatchReadPath = "/crm/v3/objects/deals/batch/read"

	// AssociationCategoryHubSpotDefined 系统内置的关联类别
	AssociationCategoryHubSpotDefined = "HUBSPOT_DEFINED"
	// DefaultAssociationTypeID 交易 -> 联系人 的内置关联类型
	DefaultAssociationTypeID = 3
)

// 固定的属性投影
var (
	ContactProperties = []string{"firstname", "lastname", "email", "phone", "address", "jobtitle", "company"}
	DealProperties    = []string{"dealname", "amount", "dealstage", "closedate", "pipeline", "createdate"}
)

var (
	crm     *HubSpotClient
	crmLock sync.RWMutex
)

// UpstreamError 上游返回的非 2xx 响应
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("hubspot returned %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// Status 上游状态码
func (e *UpstreamError) Status() int {
	return e.StatusCode
}

// Details 上游错误体，能解析为 JSON 时返回结构化内容
func (e *UpstreamError) Details() interface{} {
	var v interface{}
	if len(e.Body) > 0 && sonic.Unmarshal(e.Body, &v) == nil {
		return v
	}
	return string(e.Body)
}

// HubSpotClient HubSpot CRM REST 客户端
type HubSpotClient struct {
	token             string
	baseURL           string
	pageSize          int
	associationTypeID int
	httpClient        *http.Client
}

// Option 客户端选项
type Option func(*HubSpotClient)

// WithBaseURL 覆盖 API 地址
func WithBaseURL(base string) Option {
	return func(c *HubSpotClient) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient 使用自定义 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HubSpotClient) { c.httpClient = hc }
}

// WithAssociationTypeID 设置交易到联系人的关联类型ID
func WithAssociationTypeID(id int) Option {
	return func(c *HubSpotClient) { c.associationTypeID = id }
}

// NewHubSpotClient 创建客户端
func NewHubSpotClient(token string, opts ...Option) *HubSpotClient {
	c := &HubSpotClient{
		token:             token,
		baseURL:           config.HubSpotAPIBase,
		pageSize:          config.DefaultPageSize,
		associationTypeID: DefaultAssociationTypeID,
		httpClient:        http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// InitHubSpot 初始化全局 CRM 客户端
func InitHubSpot(cfg *config.Config, opts ...Option) *HubSpotClient {
	base := []Option{
		WithBaseURL(cfg.HubSpotBaseURL),
		WithAssociationTypeID(cfg.AssociationTypeID),
	}
	client := NewHubSpotClient(cfg.HubSpotToken, append(base, opts...)...)
	SetCRM(client)
	utils.Logger.Info().Str("baseURL", client.baseURL).Msg("已初始化HubSpot客户端")
	return client
}

// SetCRM 替换全局客户端
func SetCRM(c *HubSpotClient) {
	crmLock.Lock()
	defer crmLock.Unlock()
	crm = c
}

// CRM 获取全局客户端
func CRM() *HubSpotClient {
	crmLock.RLock()
	defer crmLock.RUnlock()
	return crm
}

// ListContacts 获取联系人（固定分页大小与属性）
func (c *HubSpotClient) ListContacts(ctx context.Context) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(c.pageSize))
	q.Set("properties", strings.Join(ContactProperties, ","))
	return c.do(ctx, http.MethodGet, ContactsPath, q, nil)
}

// CreateContact 创建联系人
func (c *HubSpotClient) CreateContact(ctx context.Context, properties models.Properties) (json.RawMessage, error) {
	body := map[string]interface{}{"properties": properties}
	return c.do(ctx, http.MethodPost, ContactsPath, nil, body)
}

// ListDeals 获取交易，附带联系人关联
func (c *HubSpotClient) ListDeals(ctx context.Context) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(c.pageSize))
	q.Set("properties", strings.Join(DealProperties, ","))
	q.Set("associations", "contacts")
	return c.do(ctx, http.MethodGet, DealsPath, q, nil)
}

type associationType struct {
	AssociationCategory string `json:"associationCategory"`
	AssociationTypeID   int    `json:"associationTypeId"`
}

type associationTarget struct {
	ID string `json:"id"`
}

type dealAssociation struct {
	To    associationTarget `json:"to"`
	Types []associationType `json:"types"`
}

type createDealBody struct {
	Properties   models.Properties `json:"properties"`
	Associations []dealAssociation `json:"associations"`
}

// CreateDeal 创建交易，contactID 非空时关联到联系人
func (c *HubSpotClient) CreateDeal(ctx context.Context, properties models.Properties, contactID string) (json.RawMessage, error) {
	body := createDealBody{
		Properties:   properties,
		Associations: []dealAssociation{},
	}
	if contactID != "" {
		body.Associations = append(body.Associations, dealAssociation{
			To: associationTarget{ID: contactID},
			Types: []associationType{{
				AssociationCategory: AssociationCategoryHubSpotDefined,
				AssociationTypeID:   c.associationTypeID,
			}},
		})
	}
	return c.do(ctx, http.MethodPost, DealsPath, nil, body)
}

type batchReadInput struct {
	ID string `json:"id"`
}

type batchReadBody struct {
	Inputs     []batchReadInput `json:"inputs"`
	Properties []string         `json:"properties"`
}

// ListDealsForContact 两步：先查关联ID，再批量读取交易；无关联时不发起第二次调用
func (c *HubSpotClient) ListDealsForContact(ctx context.Context, contactID string) (json.RawMessage, error) {
	path := fmt.Sprintf("%s/%s/associations/deals", ContactsPath, url.PathEscape(contactID))
	raw, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var assoc models.AssociationResults
	if err := sonic.Unmarshal(raw, &assoc); err != nil {
		return nil, fmt.Errorf("解析联系人交易关联失败: %w", err)
	}
	if len(assoc.Results) == 0 {
		return json.RawMessage(`{"results":[]}`), nil
	}

	body := batchReadBody{
		Inputs:     make([]batchReadInput, 0, len(assoc.Results)),
		Properties: DealProperties,
	}
	for _, r := range assoc.Results {
		body.Inputs = append(body.Inputs, batchReadInput{ID: r.ID})
	}
	return c.do(ctx, http.MethodPost, DealsBatchReadPath, nil, body)
}

// do 发送请求；非 2xx 响应返回 *UpstreamError，不重试
func (c *HubSpotClient) do(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := sonic.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("序列化请求体失败: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("创建HubSpot请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		utils.LogUpstreamCall("hubspot", method, path, 0, time.Since(start), err)
		return nil, fmt.Errorf("请求HubSpot失败: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	utils.LogUpstreamCall("hubspot", method, path, resp.StatusCode, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("读取HubSpot响应失败: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: respBody}
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return json.RawMessage(`{}`), nil
	}
	return json.RawMessage(respBody), nil
}
