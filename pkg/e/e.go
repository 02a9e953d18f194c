package e

import "fmt"

var (
	// Внутренние ошибки
	ErrTransactionNotFound  = fmt.Errorf("transaction not found")
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")
	ErrMissingEnvVariable   = fmt.Errorf("required environment variable is missing")
	ErrUnknownStoreDriver   = fmt.Errorf("unknown store driver")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrImageTooLarge        = fmt.Errorf("image is too large")

	// Ошибки валидации
	ErrProductNameRequired = fmt.Errorf("product name is required")
	ErrInvalidPrice        = fmt.Errorf("invalid price")
	ErrPricePrecision      = fmt.Errorf("price must have at most 2 decimal places")
	ErrProductNotFound     = fmt.Errorf("product not found")
	ErrOrderNotFound       = fmt.Errorf("order not found")
	ErrMissingFields       = fmt.Errorf("missing required fields")
	ErrInvalidActionToken  = fmt.Errorf("invalid action token")

	// Ошибки авторизации
	ErrAdminOnly          = fmt.Errorf("admin only")
	ErrNotForYou          = fmt.Errorf("action belongs to another user")
	ErrWrongChannel       = fmt.Errorf("action belongs to another channel")
	ErrNotTicketOwner     = fmt.Errorf("only the ticket owner can do this")
	ErrCannotCloseTicket  = fmt.Errorf("not allowed to close this ticket")
	ErrCannotReopenTicket = fmt.Errorf("not allowed to keep this ticket open")

	// Ошибки предусловий
	ErrPixNotConfigured      = fmt.Errorf("pix not configured")
	ErrEmptyCart             = fmt.Errorf("cart is empty")
	ErrTicketCategoryMissing = fmt.Errorf("ticket category is not configured")
	ErrOrderAlreadyPaid      = fmt.Errorf("order already paid")
	ErrTicketClosing         = fmt.Errorf("ticket is already closing")
	ErrTicketNotClosing      = fmt.Errorf("ticket is not closing")

	// Ошибки внешних зависимостей
	ErrTicketChannelCreate = fmt.Errorf("failed to create ticket channel")
	ErrTicketMessageSend   = fmt.Errorf("failed to post ticket message")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
