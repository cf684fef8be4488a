// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ioc

import (
	"context"

	"github.com/ecodeclub/tably/internal/payment/internal/domain"
	"github.com/ecodeclub/tably/internal/payment/internal/service/provider"
	"github.com/ecodeclub/tably/internal/payment/internal/service/provider/card"
	"github.com/ecodeclub/tably/internal/payment/internal/service/provider/wallet"
	"github.com/gotomicro/ego/core/econf"
	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/core/auth/verifiers"
	"github.com/wechatpay-apiv3/wechatpay-go/core/downloader"
	"github.com/wechatpay-apiv3/wechatpay-go/core/notify"
	"github.com/wechatpay-apiv3/wechatpay-go/core/option"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/native"
	"github.com/wechatpay-apiv3/wechatpay-go/utils"
)

type CardConfig struct {
	BaseURL string
	APIKey  string
}

type WalletConfig struct {
	AppID        string
	MchID        string
	MchKey       string
	MchSerialNum string

	// 商户私钥文件，需要自己准备
	KeyPath string

	PaymentNotifyURL string
}

func InitProviderClients() map[domain.ChannelType]provider.Client {
	return map[domain.ChannelType]provider.Client{
		domain.ChannelTypeCard:   initCardClient(InitCardConfig()),
		domain.ChannelTypeWallet: initWalletClient(initWalletConfig()),
	}
}

func InitCardConfig() CardConfig {
	var cfg CardConfig
	err := econf.UnmarshalKey("card.payment", &cfg)
	if err != nil {
		panic(err)
	}
	return cfg
}

func initCardClient(cfg CardConfig) *card.Client {
	return card.NewClient(cfg.BaseURL, cfg.APIKey)
}

func initWalletConfig() WalletConfig {
	var cfg WalletConfig
	err := econf.UnmarshalKey("wallet.payment", &cfg)
	if err != nil {
		panic(err)
	}
	return cfg
}

func initWalletClient(cfg WalletConfig) *wallet.Client {
	// 商户私钥用来生成请求签名
	mchPrivateKey, err := utils.LoadPrivateKeyWithPath(cfg.KeyPath)
	if err != nil {
		panic(err)
	}
	client, err := core.NewClient(
		context.Background(),
		option.WithWechatPayAutoAuthCipher(
			cfg.MchID, cfg.MchSerialNum,
			mchPrivateKey, cfg.MchKey),
	)
	if err != nil {
		panic(err)
	}
	return wallet.NewClient(&native.NativeApiService{Client: client},
		cfg.AppID, cfg.MchID, cfg.PaymentNotifyURL)
}

func InitWalletNotifyHandler() *notify.Handler {
	cfg := initWalletConfig()
	certificateVisitor := downloader.MgrInstance().GetCertificateVisitor(cfg.MchID)
	handler, err := notify.NewRSANotifyHandler(cfg.MchKey,
		verifiers.NewSHA256WithRSAVerifier(certificateVisitor))
	if err != nil {
		panic(err)
	}
	return handler
}
