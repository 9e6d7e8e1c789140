// Package errors はolsfit全体のエラーハンドリングと警告システムを提供します。
// 各エラーはcockroachdb/errorsでスタックトレースを付与され、zerologで構造化出力できます。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("olsfit-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はolsfit全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nilを渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// UndefinedMetricWarning は評価指標が数学的に定義できず、代替値を返した場合の警告です。
// 例えば、応答変数に変動がなくR²が0/0になる場合など。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s", w.Metric, w.Result, w.Condition)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *UndefinedMetricWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("metric", w.Metric).
		Str("condition", w.Condition).
		Float64("result", w.Result).
		Str("type", "UndefinedMetricWarning")
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	シミュレーションの事前条件エラー
//
// ===========================================================================

// InvalidSampleSizeError は標本サイズが回帰変数の数以下で、自由度が正にならない場合のエラーです。
type InvalidSampleSizeError struct {
	Got int // 指定された標本サイズ
	Min int // 許容される最小の標本サイズ（K+1）
}

func (e *InvalidSampleSizeError) Error() string {
	return fmt.Sprintf("olsfit: invalid sample size %d: need at least %d observations for positive degrees of freedom", e.Got, e.Min)
}

// Is はsentinelのErrInvalidSampleSizeとの比較を可能にします。
func (e *InvalidSampleSizeError) Is(target error) bool {
	return target == ErrInvalidSampleSize
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidSampleSizeError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("got", e.Got).
		Int("min", e.Min).
		Str("type", "InvalidSampleSizeError")
}

// NewInvalidSampleSizeError は新しいInvalidSampleSizeErrorを作成し、スタックトレースを付与します。
func NewInvalidSampleSizeError(got, min int) error {
	return errors.WithStack(&InvalidSampleSizeError{Got: got, Min: min})
}

// InvalidVarianceError は誤差の標準偏差が正の有限値でない場合のエラーです。
type InvalidVarianceError struct {
	Got float64
}

func (e *InvalidVarianceError) Error() string {
	return fmt.Sprintf("olsfit: invalid error standard deviation %g: must be a positive finite number", e.Got)
}

// Is はsentinelのErrInvalidVarianceとの比較を可能にします。
func (e *InvalidVarianceError) Is(target error) bool {
	return target == ErrInvalidVariance
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidVarianceError) MarshalZerologObject(event *zerolog.Event) {
	event.Float64("got", e.Got).
		Str("type", "InvalidVarianceError")
}

// NewInvalidVarianceError は新しいInvalidVarianceErrorを作成し、スタックトレースを付与します。
func NewInvalidVarianceError(got float64) error {
	return errors.WithStack(&InvalidVarianceError{Got: got})
}

// ComputationError は計画行列が（ほぼ）特異で最小二乗解が信頼できない場合のエラーです。
// 呼び出し側は別のシードで再試行できます。
type ComputationError struct {
	Op     string
	Reason string
	Cond   float64 // 計画行列の条件数（不明な場合は0）
	Err    error
}

func (e *ComputationError) Error() string {
	msg := fmt.Sprintf("olsfit: %s: %s", e.Op, e.Reason)
	if e.Cond > 0 {
		msg += fmt.Sprintf(" (condition number %.3g)", e.Cond)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ComputationError) Unwrap() error {
	return e.Err
}

// Is はsentinelのErrComputationとの比較を可能にします。
func (e *ComputationError) Is(target error) bool {
	return target == ErrComputation
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ComputationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("reason", e.Reason).
		Float64("cond", e.Cond).
		Str("type", "ComputationError")
}

// NewComputationError は新しいComputationErrorを作成し、スタックトレースを付与します。
func NewComputationError(op, reason string, cond float64, err error) error {
	return errors.WithStack(&ComputationError{Op: op, Reason: reason, Cond: cond, Err: err})
}

// ===========================================================================
//
//	推定器のエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` などを呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("olsfit: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns
}

func (e *DimensionError) Error() string {
	axisName := "columns"
	if e.Axis == 0 {
		axisName = "rows"
	}
	return fmt.Sprintf("olsfit: %s: dimension mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
// 設定ファイル、スライダー値、HTTPクエリの検証で使用します。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("olsfit: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ValueError は引数の値が不適切な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("olsfit: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	数値計算のエラー型
//
// ===========================================================================

// NumericalInstabilityError は数値計算の結果にNaNやInfが含まれた場合のエラーです。
type NumericalInstabilityError struct {
	Operation string    // 発生した操作（例: "ols_fit", "confidence_interval"）
	Values    []float64 // 問題のある値
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("olsfit: numerical instability detected in %s. Values: [%s]", e.Operation, valStr)
}

// Is はsentinelのErrComputationとの比較を可能にします。
// 呼び出し側から見ると数値不安定も計算エラーの一種です。
func (e *NumericalInstabilityError) Is(target error) bool {
	return target == ErrComputation
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64) error {
	return errors.WithStack(&NumericalInstabilityError{Operation: operation, Values: values})
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrInvalidSampleSize は自由度が正にならない標本サイズのエラーです。
	ErrInvalidSampleSize = New("invalid sample size")

	// ErrInvalidVariance は誤差の標準偏差が正でない場合のエラーです。
	ErrInvalidVariance = New("invalid error variance")

	// ErrComputation は最小二乗計算が退化した場合のエラーです。
	ErrComputation = New("computation error")

	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
