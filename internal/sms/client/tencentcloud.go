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

package client

import (
	"fmt"
	"strings"

	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	sms "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/sms/v20210111"
)

var _ Client = (*TencentCloudSMS)(nil)

// TencentCloudSMS 腾讯云短信实现
type TencentCloudSMS struct {
	client *sms.Client
	appID  *string // 短信 appID
}

// NewTencentCloudSMS 创建腾讯云短信客户端
func NewTencentCloudSMS(regionID, secretID, secretKey, appID string) (*TencentCloudSMS, error) {
	client, err := sms.NewClient(common.NewCredential(secretID, secretKey), regionID, profile.NewClientProfile())
	if err != nil {
		return nil, err
	}
	return &TencentCloudSMS{client: client, appID: &appID}, nil
}

func (t *TencentCloudSMS) Send(req SendReq) (SendResp, error) {
	// https://cloud.tencent.com/document/product/382/55981
	if len(req.PhoneNumbers) == 0 {
		return SendResp{}, fmt.Errorf("%w: 手机号码不能为空", ErrInvalidParameter)
	}

	request := sms.NewSendSmsRequest()
	// 下发手机号码采用 E.164 标准，不带国家码的默认按+86处理
	phoneNumPtrs := make([]*string, len(req.PhoneNumbers))
	for i := range req.PhoneNumbers {
		fullPhoneNum := req.PhoneNumbers[i]
		if !strings.HasPrefix(req.PhoneNumbers[i], "+") {
			fullPhoneNum = "+86" + req.PhoneNumbers[i]
		}
		phoneNumPtr := fullPhoneNum
		phoneNumPtrs[i] = &phoneNumPtr
	}
	request.PhoneNumberSet = phoneNumPtrs

	request.SmsSdkAppId = t.appID
	// 模板 ID，必须填写已审核通过的模板 ID
	request.TemplateId = &req.TemplateID
	// 短信签名内容，必须填写已审核通过的签名
	request.SignName = &req.SignName

	var templateParamPtrs []*string
	if req.TemplateParam != nil {
		for _, value := range req.TemplateParam {
			valuePtr := value
			templateParamPtrs = append(templateParamPtrs, &valuePtr)
		}
		request.TemplateParamSet = templateParamPtrs
	}

	response, err := t.client.SendSms(request)
	if err != nil {
		return SendResp{}, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	if len(response.Response.SendStatusSet) == 0 {
		return SendResp{}, fmt.Errorf("%w: 没有返回发送状态", ErrSendFailed)
	}

	result := SendResp{
		RequestID:    *response.Response.RequestId,
		PhoneNumbers: make(map[string]SendRespStatus),
	}
	for i := range response.Response.SendStatusSet {
		status := response.Response.SendStatusSet[i]
		result.PhoneNumbers[strings.TrimPrefix(*status.PhoneNumber, "+86")] = SendRespStatus{
			Code:    *status.Code,
			Message: *status.Message,
		}
	}
	return result, nil
}
