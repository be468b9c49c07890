package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DealStage 交易阶段，HubSpot 默认管道的取值
type DealStage string

const (
	DealStageAppointmentScheduled  DealStage = "appointmentscheduled"
	DealStageQualifiedToBuy        DealStage = "qualifiedtobuy"
	DealStagePresentationScheduled DealStage = "presentationscheduled"
	DealStageDecisionMakerBoughtIn DealStage = "decisionmakerboughtin"
	DealStageContractSent          DealStage = "contractsent"
	DealStageClosedWon             DealStage = "closedwon"
	DealStageClosedLost            DealStage = "closedlost"
)

// Properties HubSpot 对象属性包，值可能是字符串、数字或 null
type Properties map[string]interface{}

// Get 以字符串形式读取属性，缺失或 null 返回空串
func (p Properties) Get(key string) string {
	if p == nil {
		return ""
	}
	switch v := p[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// GetOr 读取属性，为空时返回默认值
func (p Properties) GetOr(key, fallback string) string {
	if v := p.Get(key); v != "" {
		return v
	}
	return fallback
}

// Number 按数值读取属性，无法解析时为 0
func (p Properties) Number(key string) float64 {
	s := strings.TrimSpace(p.Get(key))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// looseString 接受字符串、数字或 null 的 JSON 值
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*s = ""
	case string:
		*s = looseString(t)
	case json.Number:
		*s = looseString(t.String())
	default:
		return fmt.Errorf("expected string or number, got %s", string(b))
	}
	return nil
}

// Contact 联系人
type Contact struct {
	ID         string     `json:"id,omitempty"`
	Properties Properties `json:"properties"`
	CreatedAt  string     `json:"createdAt,omitempty"`
	UpdatedAt  string     `json:"updatedAt,omitempty"`
	Archived   bool       `json:"archived,omitempty"`
}

// UnmarshalJSON id 允许为数字
func (c *Contact) UnmarshalJSON(b []byte) error {
	type plain Contact
	aux := struct {
		*plain
		ID looseString `json:"id"`
	}{plain: (*plain)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.ID = string(aux.ID)
	return nil
}

// FullName 联系人姓名
func (c Contact) FullName() string {
	return strings.TrimSpace(c.Properties.Get("firstname") + " " + c.Properties.Get("lastname"))
}

// AssociationRef 关联记录引用
type AssociationRef struct {
	ID   string `json:"id"`
	Type string `json:"type,omitempty"`
}

// AssociationResults 关联结果集
type AssociationResults struct {
	Results []AssociationRef `json:"results"`
}

// DealAssociations 交易上的关联
type DealAssociations struct {
	Contacts *AssociationResults `json:"contacts,omitempty"`
}

// Deal 交易（订阅）
type Deal struct {
	ID           string            `json:"id,omitempty"`
	Properties   Properties        `json:"properties"`
	Associations *DealAssociations `json:"associations,omitempty"`
	CreatedAt    string            `json:"createdAt,omitempty"`
	UpdatedAt    string            `json:"updatedAt,omitempty"`
	Archived     bool              `json:"archived,omitempty"`
}

// UnmarshalJSON id 允许为数字
func (d *Deal) UnmarshalJSON(b []byte) error {
	type plain Deal
	aux := struct {
		*plain
		ID looseString `json:"id"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	d.ID = string(aux.ID)
	return nil
}

// Name 交易名称
func (d Deal) Name() string { return d.Properties.Get("dealname") }

// Stage 交易阶段
func (d Deal) Stage() DealStage { return DealStage(d.Properties.Get("dealstage")) }

// Amount 金额，数值字符串按数字解析
func (d Deal) Amount() float64 { return d.Properties.Number("amount") }

// ContactIDs 交易关联的联系人ID
func (d Deal) ContactIDs() []string {
	if d.Associations == nil || d.Associations.Contacts == nil {
		return nil
	}
	ids := make([]string, 0, len(d.Associations.Contacts.Results))
	for _, r := range d.Associations.Contacts.Results {
		ids = append(ids, r.ID)
	}
	return ids
}

// HasContact 是否关联到指定联系人
func (d Deal) HasContact(contactID string) bool {
	for _, id := range d.ContactIDs() {
		if id == contactID {
			return true
		}
	}
	return false
}

// 各种请求和响应结构
type (
	// CreateContactRequest 创建联系人请求
	CreateContactRequest struct {
		Properties Properties `json:"properties"`
	}

	// CreateDealRequest 创建交易请求
	CreateDealRequest struct {
		DealProperties Properties `json:"dealProperties"`
		ContactID      string     `json:"contactId,omitempty"`
	}

	// ContactPage 联系人列表
	ContactPage struct {
		Results []Contact `json:"results"`
	}

	// DealPage 交易列表
	DealPage struct {
		Results []Deal `json:"results"`
	}
)

// UnmarshalJSON contactId 允许为数字，是否有效交给 HubSpot 判断
func (r *CreateDealRequest) UnmarshalJSON(b []byte) error {
	type plain CreateDealRequest
	aux := struct {
		*plain
		ContactID looseString `json:"contactId"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.ContactID = string(aux.ContactID)
	return nil
}
