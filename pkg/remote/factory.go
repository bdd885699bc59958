package remote

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"google.golang.org/api/option"
)

// Config は GCS クライアントの設定です。
type Config struct {
	// CredentialsFile が空ならアプリケーションのデフォルト認証情報を使います。
	CredentialsFile string
}

// NewFactory は gs:// の読み書きに使う remoteio.IOFactory を作成します。
// 認証情報ファイルの指定がなければ gcsfactory をそのまま使います。
func NewFactory(ctx context.Context, cfg Config) (remoteio.IOFactory, error) {
	if cfg.CredentialsFile == "" {
		return gcsfactory.New(ctx)
	}

	//nolint:staticcheck // SA1019: ファイルからの認証情報が必要
	client, err := storage.NewClient(ctx, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("GCSクライアントの初期化に失敗しました: %w", err)
	}
	return newClientFactory(client), nil
}

// LocalIO は GCS クライアントを持たない、ローカルパス専用のリーダーとライターを返します。
// gs:// を渡すと未初期化エラーになります。
func LocalIO() (remoteio.InputReader, remoteio.OutputWriter) {
	return remoteio.NewUniversalInputReader(nil, nil), remoteio.NewUniversalIOWriter(nil, nil)
}

// clientFactory は作成済みの storage.Client を包む remoteio.IOFactory です。
type clientFactory struct {
	client *storage.Client
}

func newClientFactory(client *storage.Client) *clientFactory {
	return &clientFactory{client: client}
}

func (f *clientFactory) InputReader() (remoteio.InputReader, error) {
	if f.client == nil {
		return nil, fmt.Errorf("GCSクライアントは既にクローズされています")
	}
	return remoteio.NewUniversalInputReader(f.client, nil), nil
}

func (f *clientFactory) OutputWriter() (remoteio.OutputWriter, error) {
	if f.client == nil {
		return nil, fmt.Errorf("GCSクライアントは既にクローズされています")
	}
	return remoteio.NewUniversalIOWriter(f.client, nil), nil
}

func (f *clientFactory) URLSigner() (remoteio.URLSigner, error) {
	if f.client == nil {
		return nil, fmt.Errorf("GCSクライアントは既にクローズされています")
	}
	return remoteio.NewGCSURLSigner(f.client), nil
}

// Close はクライアントを閉じます。二回目以降は何もしません。
func (f *clientFactory) Close() error {
	if f.client == nil {
		return nil
	}
	err := f.client.Close()
	f.client = nil
	return err
}
