package domain

import (
	"errors"
	"fmt"
)

// エラー分類。呼び出し側は errors.Is で判定します。
var (
	ErrValidation = errors.New("validation error")
	ErrEncoding   = errors.New("encoding error")
	ErrRemote     = errors.New("remote error")

	ErrNetwork = &subError{msg: "network failure", parent: ErrRemote}
	ErrService = &subError{msg: "service error", parent: ErrRemote}
	ErrNoImage = &subError{msg: "no image was produced", parent: ErrRemote}

	ErrBusy          = &subError{msg: "a headshot is already being generated", parent: ErrValidation}
	ErrStyleNotFound = &subError{msg: "style not found", parent: ErrValidation}
	ErrInvalidPhase  = &subError{msg: "action is not available right now", parent: ErrValidation}
	ErrNoResult      = errors.New("no generated headshot to download")
)

// subError は親の分類を持つ番兵エラーです。
type subError struct {
	msg    string
	parent error
}

func (e *subError) Error() string { return e.msg }
func (e *subError) Unwrap() error { return e.parent }

// MsgMissingInput は画像かスタイルが揃っていない状態で生成しようとした時の文言です。
const MsgMissingInput = "Please upload an image and select a style first."

// MsgUnknown は分類できないエラーに対して表示する文言です。
const MsgUnknown = "An unknown error occurred."

// ErrorKind は ErrorState の種別です。
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindEncoding   ErrorKind = "encoding"
	KindRemote     ErrorKind = "remote"
	KindUnknown    ErrorKind = "unknown"
)

// ErrorState はユーザーに表示するエラーです。同時に一つしか保持されません。
type ErrorState struct {
	Kind    ErrorKind
	Message string
}

// kindError は表示用メッセージと分類を併せ持つエラーです。
type kindError struct {
	kind error
	msg  string
	err  error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

// NewValidationError は msg をそのまま表示するバリデーションエラーを返します。
func NewValidationError(msg string) error {
	return &kindError{kind: ErrValidation, msg: msg}
}

// NewEncodingError は画像の読み込み・変換失敗を ErrEncoding として包みます。
func NewEncodingError(err error) error {
	return &kindError{kind: ErrEncoding, msg: fmt.Sprintf("failed to read the image: %v", err), err: err}
}

// NewRemoteError は生成サービス側の失敗を表します。kind には ErrNetwork, ErrService, ErrNoImage のいずれかを渡します。
func NewRemoteError(kind error, msg string, cause error) error {
	return &kindError{kind: kind, msg: msg, err: cause}
}

// NewErrorState はエラーを閉じた分類の ErrorState に正規化します。
func NewErrorState(err error) ErrorState {
	switch {
	case err == nil:
		return ErrorState{}
	case errors.Is(err, ErrValidation):
		return ErrorState{Kind: KindValidation, Message: err.Error()}
	case errors.Is(err, ErrEncoding):
		return ErrorState{Kind: KindEncoding, Message: err.Error()}
	case errors.Is(err, ErrRemote):
		return ErrorState{Kind: KindRemote, Message: err.Error()}
	default:
		return ErrorState{Kind: KindUnknown, Message: MsgUnknown}
	}
}
