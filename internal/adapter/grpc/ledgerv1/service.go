package ledgerv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/iho/stmtledger/internal/adapter/grpc/codec"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "stmtledger.v1.LedgerService"

// Full method names, used by interceptors.
const (
	LedgerService_CreateAccount_FullMethodName     = "/" + ServiceName + "/CreateAccount"
	LedgerService_GetAccount_FullMethodName        = "/" + ServiceName + "/GetAccount"
	LedgerService_VerifyCredentials_FullMethodName = "/" + ServiceName + "/VerifyCredentials"
	LedgerService_Deposit_FullMethodName           = "/" + ServiceName + "/Deposit"
	LedgerService_Withdraw_FullMethodName          = "/" + ServiceName + "/Withdraw"
	LedgerService_GetStatement_FullMethodName      = "/" + ServiceName + "/GetStatement"
	LedgerService_ListStatements_FullMethodName    = "/" + ServiceName + "/ListStatements"
	LedgerService_GetBalance_FullMethodName        = "/" + ServiceName + "/GetBalance"
	LedgerService_Reconcile_FullMethodName         = "/" + ServiceName + "/Reconcile"
)

// LedgerServiceServer is the server API for LedgerService.
type LedgerServiceServer interface {
	CreateAccount(context.Context, *CreateAccountRequest) (*CreateAccountResponse, error)
	GetAccount(context.Context, *GetAccountRequest) (*GetAccountResponse, error)
	VerifyCredentials(context.Context, *VerifyCredentialsRequest) (*VerifyCredentialsResponse, error)
	Deposit(context.Context, *RecordStatementRequest) (*RecordStatementResponse, error)
	Withdraw(context.Context, *RecordStatementRequest) (*RecordStatementResponse, error)
	GetStatement(context.Context, *GetStatementRequest) (*GetStatementResponse, error)
	ListStatements(context.Context, *ListStatementsRequest) (*ListStatementsResponse, error)
	GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error)
	Reconcile(context.Context, *ReconcileRequest) (*ReconcileResponse, error)
}

// UnimplementedLedgerServiceServer answers every method with codes.Unimplemented.
type UnimplementedLedgerServiceServer struct{}

func (UnimplementedLedgerServiceServer) CreateAccount(context.Context, *CreateAccountRequest) (*CreateAccountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateAccount not implemented")
}
func (UnimplementedLedgerServiceServer) GetAccount(context.Context, *GetAccountRequest) (*GetAccountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAccount not implemented")
}
func (UnimplementedLedgerServiceServer) VerifyCredentials(context.Context, *VerifyCredentialsRequest) (*VerifyCredentialsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method VerifyCredentials not implemented")
}
func (UnimplementedLedgerServiceServer) Deposit(context.Context, *RecordStatementRequest) (*RecordStatementResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Deposit not implemented")
}
func (UnimplementedLedgerServiceServer) Withdraw(context.Context, *RecordStatementRequest) (*RecordStatementResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Withdraw not implemented")
}
func (UnimplementedLedgerServiceServer) GetStatement(context.Context, *GetStatementRequest) (*GetStatementResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetStatement not implemented")
}
func (UnimplementedLedgerServiceServer) ListStatements(context.Context, *ListStatementsRequest) (*ListStatementsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListStatements not implemented")
}
func (UnimplementedLedgerServiceServer) GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetBalance not implemented")
}
func (UnimplementedLedgerServiceServer) Reconcile(context.Context, *ReconcileRequest) (*ReconcileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Reconcile not implemented")
}

// RegisterLedgerServiceServer registers srv on s.
func RegisterLedgerServiceServer(s grpc.ServiceRegistrar, srv LedgerServiceServer) {
	s.RegisterService(&LedgerService_ServiceDesc, srv)
}

// unaryHandler adapts a typed service method to grpc.MethodDesc.Handler.
func unaryHandler[Req, Resp any](fullMethod string, call func(LedgerServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(srv.(LedgerServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(LedgerServiceServer), ctx, req.(*Req))
		}

		return interceptor(ctx, in, info, handler)
	}
}

// LedgerService_ServiceDesc is the grpc.ServiceDesc for LedgerService.
var LedgerService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateAccount", Handler: unaryHandler(LedgerService_CreateAccount_FullMethodName, LedgerServiceServer.CreateAccount)},
		{MethodName: "GetAccount", Handler: unaryHandler(LedgerService_GetAccount_FullMethodName, LedgerServiceServer.GetAccount)},
		{MethodName: "VerifyCredentials", Handler: unaryHandler(LedgerService_VerifyCredentials_FullMethodName, LedgerServiceServer.VerifyCredentials)},
		{MethodName: "Deposit", Handler: unaryHandler(LedgerService_Deposit_FullMethodName, LedgerServiceServer.Deposit)},
		{MethodName: "Withdraw", Handler: unaryHandler(LedgerService_Withdraw_FullMethodName, LedgerServiceServer.Withdraw)},
		{MethodName: "GetStatement", Handler: unaryHandler(LedgerService_GetStatement_FullMethodName, LedgerServiceServer.GetStatement)},
		{MethodName: "ListStatements", Handler: unaryHandler(LedgerService_ListStatements_FullMethodName, LedgerServiceServer.ListStatements)},
		{MethodName: "GetBalance", Handler: unaryHandler(LedgerService_GetBalance_FullMethodName, LedgerServiceServer.GetBalance)},
		{MethodName: "Reconcile", Handler: unaryHandler(LedgerService_Reconcile_FullMethodName, LedgerServiceServer.Reconcile)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stmtledger/v1/ledger",
}

// LedgerServiceClient is the client API for LedgerService.
type LedgerServiceClient interface {
	CreateAccount(ctx context.Context, in *CreateAccountRequest, opts ...grpc.CallOption) (*CreateAccountResponse, error)
	GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*GetAccountResponse, error)
	VerifyCredentials(ctx context.Context, in *VerifyCredentialsRequest, opts ...grpc.CallOption) (*VerifyCredentialsResponse, error)
	Deposit(ctx context.Context, in *RecordStatementRequest, opts ...grpc.CallOption) (*RecordStatementResponse, error)
	Withdraw(ctx context.Context, in *RecordStatementRequest, opts ...grpc.CallOption) (*RecordStatementResponse, error)
	GetStatement(ctx context.Context, in *GetStatementRequest, opts ...grpc.CallOption) (*GetStatementResponse, error)
	ListStatements(ctx context.Context, in *ListStatementsRequest, opts ...grpc.CallOption) (*ListStatementsResponse, error)
	GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error)
	Reconcile(ctx context.Context, in *ReconcileRequest, opts ...grpc.CallOption) (*ReconcileResponse, error)
}

type ledgerServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewLedgerServiceClient returns a client that selects the JSON codec on every call.
func NewLedgerServiceClient(cc grpc.ClientConnInterface) LedgerServiceClient {
	return &ledgerServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	callOpts := append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, callOpts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *ledgerServiceClient) CreateAccount(ctx context.Context, in *CreateAccountRequest, opts ...grpc.CallOption) (*CreateAccountResponse, error) {
	return invoke[CreateAccountResponse](ctx, c.cc, LedgerService_CreateAccount_FullMethodName, in, opts)
}

func (c *ledgerServiceClient) GetAccount(ctx context.Context, in *GetAccountRequest, opts ...grpc.CallOption) (*GetAccountResponse, error) {
	return invoke[GetAccountResponse](ctx, c.cc, LedgerService_GetAccount_FullMethodName, in, opts)
}

func (c *ledgerServiceClient) VerifyCredentials(ctx context.Context, in *VerifyCredentialsRequest, opts ...grpc.CallOption) (*VerifyCredentialsResponse, error) {
	return invoke[VerifyCredentialsResponse](ctx, c.cc, LedgerService_VerifyCredentials_FullMethodName, in, opts)
}

func (c *ledgerServiceClient) Deposit(ctx context.Context, in *RecordStatementRequest, opts ...grpc.CallOption) (*RecordStatementResponse, error) {
	return invoke[RecordStatementResponse](ctx, c.cc, LedgerService_Deposit_FullMethodName, in, opts)
}

func (c *ledgerServiceClient) Withdraw(ctx context.Context, in *RecordStatementRequest, opts ...grpc.CallOption) (*RecordStatementResponse, error) {
	return invoke[RecordStatementResponse](ctx, c.cc, LedgerService_Withdraw_FullMethodName, in, opts)
}

func (c *ledgerServiceClient) GetStatement(ctx context.Context, in *GetStatementRequest, opts ...grpc.CallOption) (*GetStatementResponse, error) {
	return invoke[GetStatementResponse](ctx, c.cc, LedgerService_GetStatement_FullMethodName, in, opts)
}

func (c *ledgerServiceClient) ListStatements(ctx context.Context, in *ListStatementsRequest, opts ...grpc.CallOption) (*ListStatementsResponse, error) {
	return invoke[ListStatementsResponse](ctx, c.cc, LedgerService_ListStatements_FullMethodName, in, opts)
}

func (c *ledgerServiceClient) GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error) {
	return invoke[GetBalanceResponse](ctx, c.cc, LedgerService_GetBalance_FullMethodName, in, opts)
}

func (c *ledgerServiceClient) Reconcile(ctx context.Context, in *ReconcileRequest, opts ...grpc.CallOption) (*ReconcileResponse, error) {
	return invoke[ReconcileResponse](ctx, c.cc, LedgerService_Reconcile_FullMethodName, in, opts)
}
