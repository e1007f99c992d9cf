// Package vcard 定义联系人的名片数据（VcardModel）
// 名片用于创建新的联系人条目，好友列表以 vCard 4.0 文本持久化它
package vcard

import (
	"bytes"
	"strings"
	"sync"

	govcard "github.com/emersion/go-vcard"
	"github.com/go-playground/validator/v10"

	"kama_address_book/pkg/errorx"
)

// Vcard 一个联系人的名片
type Vcard struct {
	UID          string   `json:"uid,omitempty"`
	Username     string   `json:"username" validate:"required,max=128"`
	SipAddresses []string `json:"sipAddresses" validate:"required,min=1,dive,required,sipaddr"`
	Avatar       string   `json:"avatar,omitempty" validate:"omitempty,max=512"`
	Organization string   `json:"organization,omitempty" validate:"omitempty,max=128"`
	Emails       []string `json:"emails,omitempty" validate:"omitempty,dive,email"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// RegisterValidations 注册名片相关的自定义校验规则
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("sipaddr", func(fl validator.FieldLevel) bool {
		return IsSipAddress(fl.Field().String())
	})
}

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		if err := RegisterValidations(validate); err != nil {
			panic(err)
		}
	})
	return validate
}

// IsSipAddress 判断是否为 sip:user@domain 或 sips:user@domain 形式
func IsSipAddress(addr string) bool {
	var rest string
	switch {
	case strings.HasPrefix(addr, "sip:"):
		rest = addr[len("sip:"):]
	case strings.HasPrefix(addr, "sips:"):
		rest = addr[len("sips:"):]
	default:
		return false
	}
	at := strings.IndexByte(rest, '@')
	return at > 0 && at < len(rest)-1 && !strings.ContainsAny(rest, " \t\r\n")
}

// Validate 校验名片；nil 名片同样视为非法
func (v *Vcard) Validate() error {
	if v == nil {
		return errorx.ErrNilProfile
	}
	if err := getValidator().Struct(v); err != nil {
		return errorx.Wrap(err, errorx.CodeInvalidProfile, "名片校验失败")
	}
	return nil
}

// PrimarySipAddress 返回第一个 SIP 地址
func (v *Vcard) PrimarySipAddress() string {
	if v == nil || len(v.SipAddresses) == 0 {
		return ""
	}
	return v.SipAddresses[0]
}

// Clone 深拷贝
func (v *Vcard) Clone() *Vcard {
	if v == nil {
		return nil
	}
	c := *v
	c.SipAddresses = append([]string(nil), v.SipAddresses...)
	c.Emails = append([]string(nil), v.Emails...)
	return &c
}

// Marshal 编码为 vCard 4.0 文本
func (v *Vcard) Marshal() (string, error) {
	if v == nil {
		return "", errorx.ErrNilProfile
	}
	card := make(govcard.Card)
	card.SetValue(govcard.FieldFormattedName, v.Username)
	if v.UID != "" {
		card.SetValue(govcard.FieldUID, v.UID)
	}
	for _, addr := range v.SipAddresses {
		card.AddValue(govcard.FieldIMPP, addr)
	}
	if v.Avatar != "" {
		card.SetValue(govcard.FieldPhoto, v.Avatar)
	}
	if v.Organization != "" {
		card.SetValue(govcard.FieldOrganization, v.Organization)
	}
	for _, email := range v.Emails {
		card.AddValue(govcard.FieldEmail, email)
	}
	govcard.ToV4(card)

	var buf bytes.Buffer
	if err := govcard.NewEncoder(&buf).Encode(card); err != nil {
		return "", errorx.Wrap(err, errorx.CodeInvalidProfile, "名片编码失败")
	}
	return buf.String(), nil
}

// Parse 解析 vCard 文本
func Parse(text string) (*Vcard, error) {
	card, err := govcard.NewDecoder(strings.NewReader(text)).Decode()
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeInvalidProfile, "名片解析失败")
	}
	v := &Vcard{
		UID:          card.Value(govcard.FieldUID),
		Username:     card.Value(govcard.FieldFormattedName),
		SipAddresses: card.Values(govcard.FieldIMPP),
		Avatar:       card.Value(govcard.FieldPhoto),
		Organization: card.Value(govcard.FieldOrganization),
		Emails:       card.Values(govcard.FieldEmail),
	}
	return v, nil
}
