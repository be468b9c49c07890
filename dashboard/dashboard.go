package dashboard

import (
	"context"
	"errors"

	"github.com/BerniceZTT/breezy_end/models"
	"github.com/BerniceZTT/breezy_end/utils"
)

var (
	// ErrContactNotFound 联系人不在已加载的列表中
	ErrContactNotFound = errors.New("Selected customer not found")
	// ErrNoSelection 未选中联系人
	ErrNoSelection = errors.New("no contact selected")
)

// CustomerSubscription 单个客户的订阅概览
type CustomerSubscription struct {
	Contact             models.Contact
	ActiveSubscriptions []models.Deal
	TotalMonthlyRevenue float64
}

// Dashboard 仪表盘各视图的状态与操作
type Dashboard struct {
	client    *Client
	Selection Selection

	Contacts         View[[]models.Contact]
	ContactDeals     View[[]models.Deal]
	AllDeals         View[[]models.Deal]
	AI               View[*models.AIStatus]
	CustomerAnalysis View[*models.CustomerAnalysis]
	BusinessAnalysis View[*models.BusinessAnalysis]
	Subscription     View[*CustomerSubscription]
}

// New 创建仪表盘
func New(client *Client) *Dashboard {
	return &Dashboard{client: client}
}

// LoadContacts 加载联系人列表
func (d *Dashboard) LoadContacts(ctx context.Context) ([]models.Contact, error) {
	return d.Contacts.load(func() ([]models.Contact, error) {
		return d.client.Contacts(ctx)
	})
}

// SelectContact 选中联系人并加载其交易
func (d *Dashboard) SelectContact(ctx context.Context, contactID string) ([]models.Deal, error) {
	contact, err := d.findContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	d.Selection.Set(*contact)
	return d.RefreshContactDeals(ctx)
}

// RefreshContactDeals 重新加载选中联系人的交易
func (d *Dashboard) RefreshContactDeals(ctx context.Context) ([]models.Deal, error) {
	selected := d.Selection.Get()
	if selected == nil {
		return nil, ErrNoSelection
	}
	return d.ContactDeals.load(func() ([]models.Deal, error) {
		return d.client.ContactDeals(ctx, selected.ID)
	})
}

// CreateContact 创建联系人，成功后选中它并刷新交易
func (d *Dashboard) CreateContact(ctx context.Context, properties models.Properties) (*models.Contact, error) {
	contact, err := d.client.CreateContact(ctx, properties)
	if err != nil {
		return nil, err
	}
	utils.Logger.Info().Str("contactId", contact.ID).Msg("联系人已创建")

	d.Selection.Set(*contact)
	if _, err := d.RefreshContactDeals(ctx); err != nil {
		utils.Logger.Warn().Err(err).Str("contactId", contact.ID).Msg("刷新联系人交易失败")
	}
	return contact, nil
}

// CreateDeal 创建交易，关联到当前选中的联系人，成功后刷新其交易
func (d *Dashboard) CreateDeal(ctx context.Context, properties models.Properties) (*models.Deal, error) {
	req := models.CreateDealRequest{DealProperties: properties}
	selected := d.Selection.Get()
	if selected != nil {
		req.ContactID = selected.ID
	}

	deal, err := d.client.CreateDeal(ctx, req)
	if err != nil {
		return nil, err
	}
	utils.Logger.Info().Str("dealId", deal.ID).Str("contactId", req.ContactID).Msg("交易已创建")

	if selected != nil {
		if _, err := d.RefreshContactDeals(ctx); err != nil {
			utils.Logger.Warn().Err(err).Str("contactId", selected.ID).Msg("刷新联系人交易失败")
		}
	}
	return deal, nil
}

// LoadAllDeals 加载全部交易
func (d *Dashboard) LoadAllDeals(ctx context.Context) ([]models.Deal, error) {
	return d.AllDeals.load(func() ([]models.Deal, error) {
		return d.client.Deals(ctx)
	})
}

// CheckAI 检查 AI 服务状态
func (d *Dashboard) CheckAI(ctx context.Context) (*models.AIStatus, error) {
	return d.AI.load(func() (*models.AIStatus, error) {
		return d.client.AIStatus(ctx)
	})
}

// AnalyseCustomer 分析单个客户，交易取自全部交易中关联到该客户的部分
func (d *Dashboard) AnalyseCustomer(ctx context.Context, contactID string) (*models.CustomerAnalysis, error) {
	return d.CustomerAnalysis.load(func() (*models.CustomerAnalysis, error) {
		contact, err := d.findContact(ctx, contactID)
		if err != nil {
			return nil, err
		}
		deals, err := d.ensureAllDeals(ctx)
		if err != nil {
			return nil, err
		}
		return d.client.AnalyseCustomer(ctx, contact, models.DealList(deals).ForContact(contact.ID))
	})
}

// AnalyseBusiness 分析整体业务
func (d *Dashboard) AnalyseBusiness(ctx context.Context) (*models.BusinessAnalysis, error) {
	return d.BusinessAnalysis.load(func() (*models.BusinessAnalysis, error) {
		contacts, err := d.ensureContacts(ctx)
		if err != nil {
			return nil, err
		}
		deals, err := d.ensureAllDeals(ctx)
		if err != nil {
			return nil, err
		}
		return d.client.AnalyseBusiness(ctx, contacts, deals)
	})
}

// Subscriptions 客户的生效订阅与收入
func (d *Dashboard) Subscriptions(ctx context.Context, contactID string) (*CustomerSubscription, error) {
	return d.Subscription.load(func() (*CustomerSubscription, error) {
		contact, err := d.findContact(ctx, contactID)
		if err != nil {
			return nil, err
		}
		deals, err := d.client.ContactDeals(ctx, contact.ID)
		if err != nil {
			return nil, err
		}
		list := models.DealList(deals)
		return &CustomerSubscription{
			Contact:             *contact,
			ActiveSubscriptions: list.ClosedWon(),
			TotalMonthlyRevenue: list.TotalRevenue(),
		}, nil
	})
}

func (d *Dashboard) ensureContacts(ctx context.Context) ([]models.Contact, error) {
	if contacts := d.Contacts.Data(); contacts != nil {
		return contacts, nil
	}
	return d.LoadContacts(ctx)
}

func (d *Dashboard) ensureAllDeals(ctx context.Context) ([]models.Deal, error) {
	if deals := d.AllDeals.Data(); deals != nil {
		return deals, nil
	}
	return d.LoadAllDeals(ctx)
}

func (d *Dashboard) findContact(ctx context.Context, contactID string) (*models.Contact, error) {
	contacts, err := d.ensureContacts(ctx)
	if err != nil {
		return nil, err
	}
	for i := range contacts {
		if contacts[i].ID == contactID {
			c := contacts[i]
			return &c, nil
		}
	}
	return nil, ErrContactNotFound
}
