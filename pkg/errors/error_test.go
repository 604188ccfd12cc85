package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidFields, "invalid fields")
	suite.NotNil(err)
	suite.Equal(ErrCodeInvalidFields, err.Code)
	suite.Equal("invalid fields", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeUnsupportedFrequency, "unsupported frequency: %s", "1m")
	suite.NotNil(err)
	suite.Equal(ErrCodeUnsupportedFrequency, err.Code)
	suite.Equal("unsupported frequency: 1m", err.Message)
	suite.Nil(err.Cause)
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeQueryFailed, "failed to load daily bars", cause)
	suite.Equal(ErrCodeQueryFailed, err.Code)
	suite.Equal("failed to load daily bars", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("connection refused")
	err := Wrapf(ErrCodeQueryFailed, cause, "failed to load daily bars for %s", "000001.XSHE")
	suite.Equal(ErrCodeQueryFailed, err.Code)
	suite.Equal("failed to load daily bars for 000001.XSHE", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestErrorString() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestErrorStringWithCause() {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeQueryFailed, "query failed", cause)
	suite.Equal("[202] query failed: connection refused", err.Error())
}

func (suite *ErrorTestSuite) TestUnwrap() {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeQueryFailed, "query failed", cause)
	suite.Equal(cause, err.Unwrap())
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestGetCodeFromWrapped() {
	cause := New(ErrCodeQueryFailed, "query failed")
	err := Wrap(ErrCodeRecorderFailed, "flush failed", cause)
	// outermost code wins
	suite.Equal(ErrCodeRecorderFailed, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromPlainError() {
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("standard error")))
}

func (suite *ErrorTestSuite) TestHasCode() {
	err := New(ErrCodeInvalidFields, "invalid fields")
	suite.True(HasCode(err, ErrCodeInvalidFields))
	suite.False(HasCode(err, ErrCodeQueryFailed))
}

func (suite *ErrorTestSuite) TestAsError() {
	err := New(ErrCodeNotProvided, "ticks are not provided")
	var coded *Error
	suite.True(As(err, &coded))
	suite.Equal(ErrCodeNotProvided, coded.Code)
}

func (suite *ErrorTestSuite) TestIsUnsupported() {
	suite.True(IsUnsupported(New(ErrCodeUnsupportedFrequency, "1m")))
	suite.True(IsUnsupported(New(ErrCodeNotProvided, "ticks")))
	suite.False(IsUnsupported(New(ErrCodeInvalidFields, "foo")))
	suite.False(IsUnsupported(errors.New("plain")))
	suite.False(IsUnsupported(nil))
}

func (suite *ErrorTestSuite) TestIsInvalidArgument() {
	suite.True(IsInvalidArgument(New(ErrCodeInvalidFields, "foo")))
	suite.True(IsInvalidArgument(New(ErrCodeInvalidParameter, "count")))
	suite.False(IsInvalidArgument(New(ErrCodeQueryFailed, "db")))
	suite.False(IsInvalidArgument(New(ErrCodeUnsupportedFrequency, "1m")))
}

func (suite *ErrorTestSuite) TestErrorCodeValues() {
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	suite.Equal(ErrorCode(202), ErrCodeQueryFailed)
	suite.Equal(ErrorCode(300), ErrCodeUnsupportedFrequency)
	suite.Equal(ErrorCode(400), ErrCodeRecorderFailed)
}
