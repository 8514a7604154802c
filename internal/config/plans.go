package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Plan describes a purchasable subscription plan.
type Plan struct {
	Name        string   `mapstructure:"name" json:"name"`
	DisplayName string   `mapstructure:"displayName" json:"displayName"`
	Description string   `mapstructure:"description" json:"description"`
	Price       float64  `mapstructure:"price" json:"price"`
	Currency    string   `mapstructure:"currency" json:"currency"`
	Features    []string `mapstructure:"features" json:"features"`
}

// PlanCatalog is the full set of plans plus payment link templates.
// PaymentLinks maps a payment method to a URL template; %s is replaced
// with the order ID. Methods without a template yield no payment URL.
type PlanCatalog struct {
	Plans        []Plan            `mapstructure:"plans"`
	PaymentLinks map[string]string `mapstructure:"paymentLinks"`
}

func DefaultPlanCatalog() PlanCatalog {
	return PlanCatalog{
		Plans: []Plan{
			{
				Name:        "start",
				DisplayName: "Start",
				Description: "Para pequenos negócios começando com atendimento automatizado",
				Price:       299.00,
				Currency:    "BRL",
				Features: []string{
					"1 agente de IA",
					"Até 500 conversas/mês",
					"Suporte por email",
				},
			},
			{
				Name:        "pro",
				DisplayName: "Pro",
				Description: "Para empresas em crescimento que precisam de mais escala",
				Price:       799.00,
				Currency:    "BRL",
				Features: []string{
					"3 agentes de IA",
					"Até 3.000 conversas/mês",
					"Integrações com CRM",
					"Suporte prioritário",
				},
			},
			{
				Name:        "enterprise",
				DisplayName: "Enterprise",
				Description: "Para operações de grande volume com necessidades avançadas",
				Price:       1999.00,
				Currency:    "BRL",
				Features: []string{
					"Agentes ilimitados",
					"Conversas ilimitadas",
					"SLA dedicado",
					"Gerente de conta",
				},
			},
		},
		PaymentLinks: map[string]string{
			"pix": "https://pay.swaybrasil.com/pix/%s",
		},
	}
}

// PlanCatalogHolder exposes the current catalog and hot-reloads it when
// the backing plans.yml changes.
type PlanCatalogHolder struct {
	current atomic.Value // holds PlanCatalog
}

func NewPlanCatalogHolder() (*PlanCatalogHolder, error) {
	v := viper.New()

	v.SetConfigName("plans")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/sway/config")
	v.AddConfigPath("/etc/sway")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultPlanCatalog()
		v.SetDefault("catalog.plans", defaults.Plans)
		v.SetDefault("catalog.paymentLinks", defaults.PaymentLinks)
	}

	var catalog PlanCatalog
	if err := v.UnmarshalKey("catalog", &catalog); err != nil {
		return nil, err
	}
	if err := validatePlanCatalog(catalog); err != nil {
		return nil, err
	}

	holder := &PlanCatalogHolder{}
	holder.current.Store(catalog)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PlanCatalog
		if err := v.UnmarshalKey("catalog", &updated); err != nil {
			log.Printf("[plan-catalog] reload failed: %v", err)
			return
		}
		if err := validatePlanCatalog(updated); err != nil {
			log.Printf("[plan-catalog] invalid catalog ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[plan-catalog] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *PlanCatalogHolder) Get() PlanCatalog {
	return h.current.Load().(PlanCatalog)
}

// NewStaticPlanCatalogHolder wraps a fixed catalog, without file
// watching. Intended for tests.
func NewStaticPlanCatalogHolder(catalog PlanCatalog) *PlanCatalogHolder {
	holder := &PlanCatalogHolder{}
	holder.current.Store(catalog)
	return holder
}

// Find returns the plan with the given name, case-insensitively.
func (c PlanCatalog) Find(name string) (Plan, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, plan := range c.Plans {
		if strings.ToLower(plan.Name) == name {
			return plan, true
		}
	}
	return Plan{}, false
}

func validatePlanCatalog(c PlanCatalog) error {
	if len(c.Plans) == 0 {
		return errors.New("catalog.plans cannot be empty")
	}
	for _, plan := range c.Plans {
		if strings.TrimSpace(plan.Name) == "" {
			return errors.New("catalog.plans entries require a name")
		}
		if plan.Price < 0 {
			return errors.New("catalog.plans prices cannot be negative")
		}
	}
	return nil
}
