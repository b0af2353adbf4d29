//	mockgen -source=internal/usecase/interfaces.go -destination=internal/usecase/mocks/mock_providers.go -package=mocks RevenueProvider,PayableProvider
//

package mocks

import (
	context "context"
	reflect "reflect"
	time "time"

	decimal "github.com/shopspring/decimal"
	gomock "go.uber.org/mock/gomock"
)

// MockRevenueProvider is a mock of RevenueProvider interface.
type MockRevenueProvider struct {
	ctrl     *gomock.Controller
	recorder *MockRevenueProviderMockRecorder
	isgomock struct{}
}

// MockRevenueProviderMockRecorder is the mock recorder for MockRevenueProvider.
type MockRevenueProviderMockRecorder struct {
	mock *MockRevenueProvider
}

// NewMockRevenueProvider creates a new mock instance.
func NewMockRevenueProvider(ctrl *gomock.Controller) *MockRevenueProvider {
	mock := &MockRevenueProvider{ctrl: ctrl}
	mock.recorder = &MockRevenueProviderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRevenueProvider) EXPECT() *MockRevenueProviderMockRecorder {
	return m.recorder
}

// ExpectedByDay mocks base method.
func (m *MockRevenueProvider) ExpectedByDay(ctx context.Context, from, to time.Time) (map[time.Time]decimal.Decimal, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ExpectedByDay", ctx, from, to)
	ret0, _ := ret[0].(map[time.Time]decimal.Decimal)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ExpectedByDay indicates an expected call of ExpectedByDay.
func (mr *MockRevenueProviderMockRecorder) ExpectedByDay(ctx, from, to any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ExpectedByDay", reflect.TypeOf((*MockRevenueProvider)(nil).ExpectedByDay), ctx, from, to)
}

// MockPayableProvider is a mock of PayableProvider interface.
type MockPayableProvider struct {
	ctrl     *gomock.Controller
	recorder *MockPayableProviderMockRecorder
	isgomock struct{}
}

// MockPayableProviderMockRecorder is the mock recorder for MockPayableProvider.
type MockPayableProviderMockRecorder struct {
	mock *MockPayableProvider
}

// NewMockPayableProvider creates a new mock instance.
func NewMockPayableProvider(ctrl *gomock.Controller) *MockPayableProvider {
	mock := &MockPayableProvider{ctrl: ctrl}
	mock.recorder = &MockPayableProviderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockPayableProvider) EXPECT() *MockPayableProviderMockRecorder {
	return m.recorder
}

// DueByDay mocks base method.
func (m *MockPayableProvider) DueByDay(ctx context.Context, from, to time.Time) (map[time.Time]decimal.Decimal, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DueByDay", ctx, from, to)
	ret0, _ := ret[0].(map[time.Time]decimal.Decimal)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DueByDay indicates an expected call of DueByDay.
func (mr *MockPayableProviderMockRecorder) DueByDay(ctx, from, to any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DueByDay", reflect.TypeOf((*MockPayableProvider)(nil).DueByDay), ctx, from, to)
}
