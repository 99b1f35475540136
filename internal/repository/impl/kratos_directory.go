package impl

import (
	"context"

	ory "github.com/ory/kratos-client-go"

	"stellar-federation/internal/modules/auth/client"
	"stellar-federation/internal/pkg/xerrors"
	"stellar-federation/internal/repository/entity"
	"stellar-federation/internal/repository/interfaces"
)

// BackendKratos Kratos 后端名称
const BackendKratos = "kratos"

// IdentitySource Kratos 身份查询，由 client.KratosClient 实现
type IdentitySource interface {
	FindIdentitiesByIdentifier(ctx context.Context, identifier string) ([]ory.Identity, error)
	GetIdentity(ctx context.Context, identityID string) (*ory.Identity, error)
}

// KratosDirectory 以 Kratos 身份作为用户目录
type KratosDirectory struct {
	identities IdentitySource
}

// NewKratosDirectory 创建 Kratos 用户目录
func NewKratosDirectory(identities IdentitySource) *KratosDirectory {
	return &KratosDirectory{identities: identities}
}

// SearchUsers 按凭证标识符（用户名或邮箱）查询身份
func (d *KratosDirectory) SearchUsers(ctx context.Context, term string) ([]*entity.DirectoryUser, error) {
	identities, err := d.identities.FindIdentitiesByIdentifier(ctx, term)
	if err != nil {
		return nil, err
	}

	users := make([]*entity.DirectoryUser, 0, len(identities))
	for i := range identities {
		users = append(users, toDirectoryUser(&identities[i]))
	}
	return users, nil
}

func (d *KratosDirectory) GetUser(ctx context.Context, userID string) (*entity.DirectoryUser, error) {
	identity, err := d.identities.GetIdentity(ctx, userID)
	if xerrors.HasCode(err, xerrors.CodeUserNotFound) {
		return nil, interfaces.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return toDirectoryUser(identity), nil
}

func (d *KratosDirectory) Backend() string {
	return BackendKratos
}

func toDirectoryUser(identity *ory.Identity) *entity.DirectoryUser {
	email, username := client.IdentityTraits(identity)
	return &entity.DirectoryUser{
		ID:    identity.Id,
		Login: username,
		Email: email,
	}
}
