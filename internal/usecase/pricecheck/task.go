package pricecheck

import (
	"context"
	"fmt"

	"browser-task/internal/application/port/output"
	"browser-task/internal/domain/entity"

	"github.com/shopspring/decimal"
)

const DefaultURL = "https://www.saucedemo.com/"

// Actions is the part of the driver the task needs.
type Actions interface {
	Navigate(ctx context.Context, url string) error
	Click(ctx context.Context, selector string) error
	TypeText(ctx context.Context, selector, text string) error
	ReadText(ctx context.Context, selector string) (string, error)
}

type Selectors struct {
	Username    string
	Password    string
	LoginButton string
	// Class names used to build the XPath of the product price.
	ItemClass  string
	NameClass  string
	PriceClass string
}

func DefaultSelectors() Selectors {
	return Selectors{
		Username:    "#user-name",
		Password:    "#password",
		LoginButton: "#login-button",
		ItemClass:   "inventory_item",
		NameClass:   "inventory_item_name",
		PriceClass:  "inventory_item_price",
	}
}

type Config struct {
	URL       string
	Username  string
	Password  string
	Product   string
	Selectors Selectors
}

// Task logs in and reads the price of one product.
type Task struct {
	actions Actions
	cfg     Config
	logger  output.LoggerPort
}

func New(actions Actions, cfg Config, logger output.LoggerPort) *Task {
	return &Task{
		actions: actions,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run stops at the first failing step and returns its error unchanged.
func (t *Task) Run(ctx context.Context) entity.PriceResult {
	t.logger.Info("Starting price check", "url", t.cfg.URL, "product", t.cfg.Product)

	priceSelector, err := PriceSelector(t.cfg.Selectors, t.cfg.Product)
	if err != nil {
		return entity.Failure[decimal.Decimal](entity.NewActionError(entity.KindInvalidInput, "build price selector", err))
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"navigate", func() error { return t.actions.Navigate(ctx, t.cfg.URL) }},
		{"type username", func() error { return t.actions.TypeText(ctx, t.cfg.Selectors.Username, t.cfg.Username) }},
		{"type password", func() error { return t.actions.TypeText(ctx, t.cfg.Selectors.Password, t.cfg.Password) }},
		{"click login", func() error { return t.actions.Click(ctx, t.cfg.Selectors.LoginButton) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			t.logger.Error("Step failed", "step", step.name, "error", err)
			return entity.FromError[decimal.Decimal](err)
		}
	}

	text, err := t.actions.ReadText(ctx, priceSelector)
	if err != nil {
		t.logger.Error("Step failed", "step", "read price", "error", err)
		return entity.FromError[decimal.Decimal](err)
	}

	price, err := ParsePrice(text)
	if err != nil {
		t.logger.Error("Price parse failed", "text", text, "error", err)
		return entity.Failure[decimal.Decimal](entity.NewActionError(
			entity.KindParseError,
			fmt.Sprintf("cannot parse price %q", text),
			err,
		))
	}

	t.logger.Info("Price found", "product", t.cfg.Product, "price", price.String())
	return entity.Success(price)
}
