package service

import (
	"fmt"

	"ai-imagestudio-be/internal/dto"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// MidtransGateway abstracts the two Midtrans entry points we use: hosted
// Snap checkout and direct bank-transfer charges.
type MidtransGateway interface {
	CreateSnapTransaction(orderId string, grossAmount int64, planName string) (token string, redirectURL string, err error)
	ChargeBankTransfer(orderId string, grossAmount int64, planName string, bank string) (*dto.ChargeResponse, error)
}

type midtransGateway struct {
	serverKey string
	env       midtrans.EnvironmentType
	finishURL string
}

func NewMidtransGateway(serverKey string, isProduction bool, finishURL string) MidtransGateway {
	env := midtrans.Sandbox
	if isProduction {
		env = midtrans.Production
	}
	return &midtransGateway{
		serverKey: serverKey,
		env:       env,
		finishURL: finishURL,
	}
}

func (g *midtransGateway) CreateSnapTransaction(orderId string, grossAmount int64, planName string) (string, string, error) {
	var sClient snap.Client
	sClient.New(g.serverKey, g.env)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderId,
			GrossAmt: grossAmount,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    planName,
				Price: grossAmount,
				Qty:   1,
				Name:  fmt.Sprintf("%s Plan", planName),
			},
		},
		Callbacks: &snap.Callbacks{
			Finish: g.finishURL,
		},
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return "", "", fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}
	return snapResp.Token, snapResp.RedirectURL, nil
}

func (g *midtransGateway) ChargeBankTransfer(orderId string, grossAmount int64, planName string, bank string) (*dto.ChargeResponse, error) {
	var cClient coreapi.Client
	cClient.New(g.serverKey, g.env)

	if bank == "" {
		bank = "bca"
	}

	chargeReq := &coreapi.ChargeReq{
		PaymentType: coreapi.PaymentTypeBankTransfer,
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderId,
			GrossAmt: grossAmount,
		},
		BankTransfer: &coreapi.BankTransferDetails{
			Bank: midtrans.Bank(bank),
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    planName,
				Price: grossAmount,
				Qty:   1,
				Name:  fmt.Sprintf("%s Plan", planName),
			},
		},
	}

	chargeResp, midErr := cClient.ChargeTransaction(chargeReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	res := &dto.ChargeResponse{
		OrderId:    chargeResp.OrderID,
		PaymentUrl: chargeResp.RedirectURL,
	}
	for _, va := range chargeResp.VaNumbers {
		res.VANumbers = append(res.VANumbers, dto.VANumber{
			Bank:     va.Bank,
			VANumber: va.VANumber,
		})
	}
	return res, nil
}
