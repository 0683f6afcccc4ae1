package domain

import "strings"

// Intent is a discrete classification label for user input. The dialogue
// orchestrator dispatches one handler per intent.
type Intent string

const (
	// IntentOrder adds dishes to the cart (or suggests matches).
	IntentOrder Intent = "order"

	// IntentCancel cancels the session's outstanding order.
	IntentCancel Intent = "cancel"

	// IntentMenuInfo lists the menu grouped by category.
	IntentMenuInfo Intent = "menu_info"

	// IntentPriceInfo asks about prices. It has no dedicated handler and
	// is answered via the retrieval + generation path.
	IntentPriceInfo Intent = "price_info"

	// IntentViewCart shows the current cart and running total.
	IntentViewCart Intent = "view_cart"

	// IntentConfirmOrder turns the cart into a persisted order.
	IntentConfirmOrder Intent = "confirm_order"

	// IntentSoupDishes lists soup and other liquid dishes.
	IntentSoupDishes Intent = "soup_dishes"

	// IntentGeneral is everything the rules cannot classify.
	IntentGeneral Intent = "general"
)

// IntentRule maps a keyword group to an intent. Rules are evaluated top to
// bottom and the first group containing any matching keyword wins, so the
// position of a rule encodes its priority.
type IntentRule struct {
	Intent   Intent
	Keywords []string
}

// intentRules is the fixed, ordered rule table. The order is a behavioural
// contract: a message containing both an order verb and a cancel verb
// always classifies as IntentOrder. Do not reorder.
var intentRules = []IntentRule{
	{IntentOrder, []string{"đặt", "gọi", "order", "thêm", "cho tôi", "muốn"}},
	{IntentCancel, []string{"hủy", "cancel", "bỏ"}},
	{IntentMenuInfo, []string{"menu", "món", "có gì", "thực đơn", "xem menu"}},
	{IntentPriceInfo, []string{"giá", "bao nhiêu", "price", "tiền"}},
	{IntentViewCart, []string{"giỏ", "cart", "đơn hàng", "xem giỏ"}},
	{IntentConfirmOrder, []string{"xác nhận", "confirm"}},
	{IntentSoupDishes, []string{"nước", "soup", "canh", "lỏng"}},
}

// IntentRules returns a copy of the ordered rule table so tests and tooling
// can enumerate every rule and its priority without mutating the original.
func IntentRules() []IntentRule {
	rules := make([]IntentRule, len(intentRules))
	copy(rules, intentRules)
	return rules
}

// ClassifyIntent maps raw user text to an intent by case-insensitive
// substring matching against the ordered rule table. Text matching no rule
// classifies as IntentGeneral. No scoring, no negation handling: ambiguity
// is resolved purely by rule precedence.
func ClassifyIntent(text string) Intent {
	lower := strings.ToLower(text)
	for _, rule := range intentRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Intent
			}
		}
	}
	return IntentGeneral
}
