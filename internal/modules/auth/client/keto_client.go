// Package client provides clients for external services
package client

import (
	"context"
	"errors"
	"fmt"

	rts "github.com/ory/keto/proto/ory/keto/relation_tuples/v1alpha2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"stellar-federation/internal/pkg/xerrors"
)

// RelationEdit 允许编辑目标用户资料的关系名
const RelationEdit = "edit"

// KetoClient Keto 客户端封装 (gRPC API)
type KetoClient struct {
	readConn    *grpc.ClientConn
	writeConn   *grpc.ClientConn
	writeClient rts.WriteServiceClient
	checkClient rts.CheckServiceClient
	namespace   string
}

// NewKetoClient 连接 Keto 读写服务
// readAddr: Keto Read gRPC 地址 (例如: "localhost:4466")
// writeAddr: Keto Write gRPC 地址，为空时只支持权限检查
func NewKetoClient(readAddr, writeAddr, namespace string) (*KetoClient, error) {
	if readAddr == "" {
		return nil, errors.New("keto read address cannot be empty")
	}

	readConn, err := grpc.Dial(readAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to keto read service: %w", err)
	}

	var writeConn *grpc.ClientConn
	if writeAddr != "" {
		writeConn, err = grpc.Dial(writeAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			readConn.Close()
			return nil, fmt.Errorf("failed to connect to keto write service: %w", err)
		}
	}

	var writer grpc.ClientConnInterface
	if writeConn != nil {
		writer = writeConn
	}
	k := NewKetoClientFromConns(readConn, writer, namespace)
	k.readConn, k.writeConn = readConn, writeConn
	return k, nil
}

// NewKetoClientFromConns 基于已有连接创建客户端，连接的生命周期由调用方管理
func NewKetoClientFromConns(readConn, writeConn grpc.ClientConnInterface, namespace string) *KetoClient {
	if namespace == "" {
		namespace = "User"
	}
	k := &KetoClient{
		checkClient: rts.NewCheckServiceClient(readConn),
		namespace:   namespace,
	}
	if writeConn != nil {
		k.writeClient = rts.NewWriteServiceClient(writeConn)
	}
	return k
}

// Close 关闭客户端连接
func (k *KetoClient) Close() error {
	var errs []error
	if k.readConn != nil {
		errs = append(errs, k.readConn.Close())
	}
	if k.writeConn != nil {
		errs = append(errs, k.writeConn.Close())
	}
	return errors.Join(errs...)
}

// CheckPermission 检查 subjectID 是否拥有 namespace:object#relation
func (k *KetoClient) CheckPermission(ctx context.Context, namespace, object, relation, subjectID string) (bool, error) {
	resp, err := k.checkClient.Check(ctx, &rts.CheckRequest{
		Namespace: namespace,
		Object:    object,
		Relation:  relation,
		Subject:   &rts.Subject{Ref: &rts.Subject_Id{Id: subjectID}},
	})
	if err != nil {
		return false, xerrors.NewKetoError("check", err).
			WithMetadata("object", object).
			WithMetadata("relation", relation)
	}
	return resp.Allowed, nil
}

// CanEditUser 检查 editorID 是否可以编辑 targetUserID 的资料
func (k *KetoClient) CanEditUser(ctx context.Context, editorID, targetUserID string) (bool, error) {
	return k.CheckPermission(ctx, k.namespace, targetUserID, RelationEdit, editorID)
}

// GrantEditor 授予 editorID 编辑 targetUserID 资料的权限
func (k *KetoClient) GrantEditor(ctx context.Context, editorID, targetUserID string) error {
	return k.transact(ctx, rts.RelationTupleDelta_ACTION_INSERT, editorID, targetUserID)
}

// RevokeEditor 撤销编辑权限
func (k *KetoClient) RevokeEditor(ctx context.Context, editorID, targetUserID string) error {
	return k.transact(ctx, rts.RelationTupleDelta_ACTION_DELETE, editorID, targetUserID)
}

func (k *KetoClient) transact(ctx context.Context, action rts.RelationTupleDelta_Action, editorID, targetUserID string) error {
	if k.writeClient == nil {
		return xerrors.New(xerrors.CodeKetoError, "Keto write API 未配置").WithService("keto", "transact")
	}

	_, err := k.writeClient.TransactRelationTuples(ctx, &rts.TransactRelationTuplesRequest{
		RelationTupleDeltas: []*rts.RelationTupleDelta{
			{
				Action: action,
				RelationTuple: &rts.RelationTuple{
					Namespace: k.namespace,
					Object:    targetUserID,
					Relation:  RelationEdit,
					Subject:   &rts.Subject{Ref: &rts.Subject_Id{Id: editorID}},
				},
			},
		},
	})
	if err != nil {
		return xerrors.NewKetoError("transact", err).WithMetadata("action", action.String())
	}
	return nil
}
