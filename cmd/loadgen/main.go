// Command loadgen posts synthetic checkouts to a running API.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"bookstore-checkout/internal/core/httpclient"
	"bookstore-checkout/internal/core/logger"
	"bookstore-checkout/internal/features/checkout/domain"
	paymentdomain "bookstore-checkout/internal/features/payments/domain"
	shippingdomain "bookstore-checkout/internal/features/shipping/domain"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	target := flag.String("target", "http://localhost:8080", "API base URL")
	total := flag.Int("n", 50, "number of checkouts to send")
	concurrency := flag.Int("c", 5, "concurrent requests")
	invalidRatio := flag.Float64("invalid", 0.1, "share of requests sent with a broken card")
	seed := flag.Uint64("seed", 0, "faker seed, 0 for random")
	flag.Parse()

	if err := logger.Init("development", "info", "bookstore-loadgen"); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	l := logger.Get()

	faker := gofakeit.New(*seed)
	client := httpclient.NewClient(30*time.Second, httpclient.WithUserAgent("bookstore-loadgen"))

	var ok, rejected, failed atomic.Int64
	start := time.Now()

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*concurrency)
	for i := 0; i < *total; i++ {
		req := fakeRequest(faker, faker.Float64() < *invalidRatio)
		g.Go(func() error {
			status, err := send(ctx, client, *target, req)
			if err != nil {
				return err
			}
			switch {
			case status == http.StatusOK:
				ok.Add(1)
			case status == http.StatusBadRequest:
				rejected.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		l.Fatal("Load generation aborted", zap.Error(err))
	}

	l.Info("Load generation finished",
		zap.Int64("committed", ok.Load()),
		zap.Int64("rejected", rejected.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Duration("elapsed", time.Since(start)),
	)
}

func send(ctx context.Context, client *http.Client, target string, req domain.CheckoutRequest) (int, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, target+"/checkout", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("checkout request failed: %w", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

func fakeRequest(f *gofakeit.Faker, broken bool) domain.CheckoutRequest {
	items := make([]domain.CartItem, f.Number(1, 4))
	for i := range items {
		items[i] = domain.CartItem{
			BookID:    f.UUID(),
			Title:     f.BookTitle(),
			UnitPrice: decimal.NewFromFloat(f.Price(4, 60)).Round(2),
			Quantity:  f.Number(1, 3),
		}
	}

	card := f.CreditCardNumber(&gofakeit.CreditCardOptions{Types: []string{"visa", "mastercard", "american-express", "discover"}})
	if broken {
		card = card[:len(card)-1]
	}

	return domain.CheckoutRequest{
		UserID: f.UUID(),
		CartID: f.UUID(),
		Items:  items,
		ShippingAddress: shippingdomain.Address{
			Street:     f.Street(),
			City:       f.City(),
			PostalCode: f.Zip(),
			Country:    "USA",
		},
		ShippingMethod: shippingdomain.Methods[f.Number(0, len(shippingdomain.Methods)-1)],
		Payment: paymentdomain.PaymentInfo{
			CardNumber:     card,
			CardholderName: f.Name(),
			Expiry:         f.CreditCardExp(),
			CVV:            cvvFor(f, card),
			BillingCountry: "USA",
		},
	}
}

func cvvFor(f *gofakeit.Faker, card string) string {
	if paymentdomain.DetectBrand(card) == paymentdomain.CardBrandAmericanExpress {
		return f.Numerify("####")
	}
	return f.Numerify("###")
}
