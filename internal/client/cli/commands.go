package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/primepost/internal/client/biometric"
	"github.com/dmitrijs2005/primepost/internal/client/cart"
	"github.com/dmitrijs2005/primepost/internal/client/gate"
	"github.com/dmitrijs2005/primepost/internal/client/models"
	"github.com/dmitrijs2005/primepost/internal/client/services"
	"github.com/dmitrijs2005/primepost/internal/common"
)

var (
	errNotLoggedIn = errors.New("not signed in, type 'login'")
	errGateOpen    = errors.New("finish the current prompt first (press Enter)")
)

type usageError string

func (u usageError) Error() string {
	return "usage: " + string(u)
}

func (a *App) isLoggedIn() bool {
	return a.identity.IsAuthenticated()
}

// requireReady lets a command through only when the user is signed in and
// no gate is pending.
func (a *App) requireReady(ctx context.Context) error {
	if !a.identity.IsAuthenticated() {
		return errNotLoggedIn
	}
	if g := a.access.Gate(ctx); g != gate.None {
		return fmt.Errorf("%w: %s", errGateOpen, g)
	}
	return nil
}

// Login signs in with the name given as arguments, prompting when none is.
func (a *App) Login(ctx context.Context, args []string) error {
	if id := a.identity.Current(); id != nil {
		a.printf("Already signed in as %s.\n", id.Principal)
		return nil
	}

	name := strings.Join(args, " ")
	if name == "" {
		var err error
		name, err = GetSimpleText(a.reader, "Enter your name", a.out)
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrInvalidArgument)
	}

	if err := a.identity.Login(ctx, name); err != nil {
		return err
	}
	if id := a.identity.Current(); id != nil {
		a.printf("Signed in as %s.\n", id.Principal)
	}
	return nil
}

// Logout tears the session down. It never fails; steps that could not run
// are logged by the teardown manager.
func (a *App) Logout(ctx context.Context) error {
	report := a.teardown.PerformLogout(ctx)
	if !report.OK() {
		a.println("Some local data could not be cleared.")
	}
	return nil
}

func (a *App) Status(ctx context.Context) error {
	a.printf("identity:  %s\n", a.identity.Status())
	if id := a.identity.Current(); id != nil {
		expires := "never"
		if !id.ExpiresAt.IsZero() {
			expires = id.ExpiresAt.Format("2006-01-02 15:04")
		}
		a.printf("principal: %s (expires %s)\n", id.Principal, expires)
		p, status, _ := a.access.Profile(ctx)
		a.printf("profile:   %s\n", profileStatusText(status))
		if p != nil {
			a.printf("role:      %s\n", p.Role)
		}
	}

	snap := a.state.Snapshot()
	a.printf("pin set:   %t\n", snap.PinSet)
	a.printf("unlocked:  %t\n", snap.Unlocked)

	enrolled, _ := a.bio.IsEnrolled(ctx)
	a.printf("biometric: available=%t enrolled=%t\n", a.bio.IsAvailable(ctx), enrolled)
	a.printf("gate:      %s\n", a.access.Gate(ctx))
	if m := a.Mode(); m != "" {
		a.printf("mode:      %s\n", m)
	}
	return nil
}

func profileStatusText(s gate.ProfileStatus) string {
	switch s {
	case gate.ProfileAbsent:
		return "not set up"
	case gate.ProfilePresent:
		return "present"
	case gate.ProfileFailed:
		return "unavailable"
	default:
		return "loading"
	}
}

func (a *App) Lock(ctx context.Context) error {
	if !a.state.Snapshot().PinSet {
		a.println("No PIN is set.")
		return nil
	}
	if err := a.unlock.Lock(ctx); err != nil {
		return err
	}
	a.println("Locked.")
	return nil
}

// Terms shows a terms document and offers to accept it.
func (a *App) Terms(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("terms <customer|owner|privacy>")
	}
	if err := a.requireReady(ctx); err != nil {
		return err
	}
	t, err := models.ParseTermsType(args[0])
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}

	text, err := a.access.TermsContent(ctx, t)
	if err != nil {
		return err
	}
	a.println(text)

	accepted, err := a.access.HasAcceptedTerms(ctx, t)
	if err != nil {
		return err
	}
	if accepted {
		a.println("You have accepted these terms.")
		return nil
	}

	ok, err := GetConfirmation(a.reader, "Accept these terms?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.access.AcceptTerms(ctx, t); err != nil {
		return err
	}
	a.println("Terms accepted.")
	return nil
}

// Route reports what opening path would do for the current user.
func (a *App) Route(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("route <path>")
	}
	route := gate.RouteFor(args[0])
	outcome := a.access.CheckRoute(ctx, route.Path)

	switch outcome {
	case gate.RedirectLogin:
		a.printf("%s -> %s\n", outcome, gate.LoginRouteFor(route.RequiredRole))
	case gate.RedirectTerms:
		a.printf("%s -> %s\n", outcome, gate.TermsRouteFor(route.RequiredTerms))
	case gate.AccessDenied:
		home := "/"
		if p, _, _ := a.access.Profile(ctx); p != nil {
			home = gate.HomeRouteFor(p.Role)
		}
		a.printf("%s (home: %s)\n", outcome, home)
	default:
		a.println(outcome.String())
	}
	return nil
}

func (a *App) Cart(ctx context.Context) error {
	if err := a.requireReady(ctx); err != nil {
		return err
	}
	stores := a.cart.StoreIDs()
	if len(stores) == 0 {
		a.println("Your cart is empty.")
		return nil
	}
	for _, storeID := range stores {
		a.printf("store %s\n", storeID)
		for _, item := range a.cart.StoreCart(storeID) {
			a.printf("  %-20s x%-3d %10s\n", item.Product.Name, item.Quantity, cart.FormatPrice(cart.LineTotal(item)))
		}
		a.printf("  %-25s %10s\n", "total", cart.FormatPrice(a.cart.StoreTotal(storeID)))
	}
	return nil
}

// Add puts a product snapshot into a store's cart. Prices are in cents.
func (a *App) Add(ctx context.Context, args []string) error {
	const usage = usageError("add <store> <product> <price-cents> <stock> [qty] [discount%]")
	if len(args) < 4 || len(args) > 6 {
		return usage
	}
	if err := a.requireReady(ctx); err != nil {
		return err
	}

	nums := make([]int64, 4)
	nums[2] = 1
	for i, raw := range args[2:] {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return usage
		}
		nums[i] = n
	}
	price, stock, qty, discount := nums[0], nums[1], nums[2], nums[3]

	product := models.Product{
		ID:         args[1],
		StoreID:    args[0],
		Name:       args[1],
		Price:      price,
		StockQty:   stock,
		Discount:   discount,
		OutOfStock: stock <= 0,
	}
	if err := a.cart.AddItem(ctx, args[0], product, qty); err != nil {
		return err
	}
	a.printf("Added %d x %s.\n", qty, args[1])
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usageError("remove <store> <product>")
	}
	if err := a.requireReady(ctx); err != nil {
		return err
	}
	return a.cart.RemoveItem(ctx, args[0], args[1])
}

// Checkout places the order for one store's cart after step-up
// verification.
func (a *App) Checkout(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("checkout <store>")
	}
	if err := a.requireReady(ctx); err != nil {
		return err
	}
	storeID := args[0]
	if len(a.cart.StoreCart(storeID)) == 0 {
		return services.ErrEmptyCart
	}
	a.printf("Order total: %s\n", cart.FormatPrice(a.cart.StoreTotal(storeID)))

	var in services.CheckoutInput
	var err error
	if in.TableNumber, err = GetSimpleText(a.reader, "Table number (optional)", a.out); err != nil {
		return err
	}
	if in.SpecialNote, err = GetSimpleText(a.reader, "Special note (optional)", a.out); err != nil {
		return err
	}
	method, err := GetSimpleText(a.reader, "Payment method (cash, mobileMoney)", a.out)
	if err != nil {
		return err
	}
	if in.PaymentMethod, err = models.ParsePaymentMethod(method); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidArgument, err)
	}

	orderID, err := a.checkout.PlaceOrder(ctx, storeID, in, a.promptPin)
	if err != nil {
		return err
	}
	a.printf("Order %s placed.\n", orderID)
	return nil
}

func (a *App) promptPin(ctx context.Context) (string, error) {
	pin, err := a.readPin("Confirm with your PIN")
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pin)
	return string(pin), nil
}

// Biometric enrolls biometrics on request, outside the one-time offer.
func (a *App) Biometric(ctx context.Context) error {
	if err := a.requireReady(ctx); err != nil {
		return err
	}
	enrolled, err := a.bio.IsEnrolled(ctx)
	if err != nil {
		return err
	}
	if enrolled {
		a.println("Biometric unlock is already enabled.")
		return nil
	}

	if err := a.bio.Enable(ctx); err != nil {
		if errors.Is(err, biometric.ErrUserCancelled) {
			a.println("Biometric setup cancelled.")
			return nil
		}
		return err
	}
	a.println("Biometric unlock enabled.")
	return nil
}

// Reset wipes all marketplace data. Only a super admin may do this.
func (a *App) Reset(ctx context.Context) error {
	if err := a.requireReady(ctx); err != nil {
		return err
	}
	a.println("This deletes every profile, store and order on the server.")
	phrase, err := GetSimpleText(a.reader, fmt.Sprintf("Type %q to confirm", common.FactoryResetPhrase), a.out)
	if err != nil {
		return err
	}

	report, err := a.admin.FactoryReset(ctx, phrase)
	if err != nil {
		return err
	}
	if !report.OK() {
		a.println("Reset done, but some local data could not be cleared.")
	}
	return nil
}
