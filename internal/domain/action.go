package domain

import (
	"strings"

	"github.com/DRSN-tech/pix-shop-bot/pkg/e"
)

// Action — тип действия, закодированного в custom id кнопки или меню.
type Action string

const (
	ActionOpenMenu     Action = "open_menu"
	ActionViewCart     Action = "view_cart"
	ActionAddToCart    Action = "add_to_cart"
	ActionAddMore      Action = "add_more"
	ActionClearCart    Action = "clear_cart"
	ActionCheckout     Action = "checkout"
	ActionConfirmOrder Action = "confirm_order"
	ActionCancelOrder  Action = "cancel_order"
	ActionPaid         Action = "paid"
	ActionClose        Action = "close"
	ActionKeepOpen     Action = "keep_open"
)

const tokenSeparator = ":"

// ownership описывает, какие части токена обязательны для действия.
type ownership struct {
	owner bool
	scope bool
}

var actionOwnership = map[Action]ownership{
	ActionOpenMenu:     {},
	ActionViewCart:     {},
	ActionAddToCart:    {owner: true, scope: true},
	ActionAddMore:      {owner: true, scope: true},
	ActionClearCart:    {owner: true, scope: true},
	ActionCheckout:     {owner: true, scope: true},
	ActionConfirmOrder: {owner: true, scope: true},
	ActionCancelOrder:  {owner: true, scope: true},
	ActionPaid:         {owner: true},
	ActionClose:        {owner: true},
	ActionKeepOpen:     {owner: true},
}

// ActionToken — типизированный custom id: действие, владелец и канал.
type ActionToken struct {
	Action  Action
	OwnerID string
	ScopeID string
}

func NewActionToken(action Action, ownerID, scopeID string) ActionToken {
	return ActionToken{Action: action, OwnerID: ownerID, ScopeID: scopeID}
}

// Encode собирает custom id вида "action[:owner[:scope]]".
func (t ActionToken) Encode() string {
	rules := actionOwnership[t.Action]
	parts := []string{string(t.Action)}
	if rules.owner {
		parts = append(parts, t.OwnerID)
	}
	if rules.scope {
		parts = append(parts, t.ScopeID)
	}

	return strings.Join(parts, tokenSeparator)
}

// ParseActionToken разбирает custom id и проверяет, что в нём есть все обязательные части.
func ParseActionToken(customID string) (ActionToken, error) {
	parts := strings.Split(customID, tokenSeparator)
	action := Action(parts[0])

	rules, ok := actionOwnership[action]
	if !ok {
		return ActionToken{}, e.Wrap(customID, e.ErrInvalidActionToken)
	}

	expected := 1
	if rules.owner {
		expected++
	}
	if rules.scope {
		expected++
	}
	if len(parts) != expected {
		return ActionToken{}, e.Wrap(customID, e.ErrInvalidActionToken)
	}

	token := ActionToken{Action: action}
	if rules.owner {
		token.OwnerID = parts[1]
		if token.OwnerID == "" {
			return ActionToken{}, e.Wrap(customID, e.ErrInvalidActionToken)
		}
	}
	if rules.scope {
		token.ScopeID = parts[2]
		if token.ScopeID == "" {
			return ActionToken{}, e.Wrap(customID, e.ErrInvalidActionToken)
		}
	}

	return token, nil
}

// IsOwned сообщает, привязано ли действие к конкретному пользователю.
func (t ActionToken) IsOwned() bool {
	return actionOwnership[t.Action].owner
}

// RequiresScope сообщает, привязано ли действие к каналу корзины.
// Действия тикета (paid, close, keep_open) проверяются сценарием тикета.
func (t ActionToken) RequiresScope() bool {
	return actionOwnership[t.Action].scope
}

// Authorize проверяет, что действие выполняет владелец токена и из того же канала.
// Несовпадение не раскрывает, кому принадлежит токен.
func (t ActionToken) Authorize(actorID, scopeID string) error {
	rules := actionOwnership[t.Action]
	if rules.owner && t.OwnerID != actorID {
		return e.ErrNotForYou
	}
	if rules.scope && t.ScopeID != scopeID {
		return e.ErrWrongChannel
	}

	return nil
}
