package log

import (
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const projectName = "Shopcore"

var (
	L     *zap.Logger
	level = zap.NewAtomicLevelAt(zap.InfoLevel)
)

func init() {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeCaller = func(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		index := strings.Index(caller.File, projectName)
		if index != -1 {
			enc.AppendString(caller.File[index:] + ":" + strconv.Itoa(caller.Line))
		} else {
			enc.AppendString(caller.TrimmedPath())
		}
	}
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	core := zapcore.NewCore(
		encoder,
		zapcore.AddSync(os.Stdout),
		level,
	)
	L = zap.New(core, zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

// SetDebug 调试模式下输出 debug 日志
func SetDebug(debug bool) {
	if debug {
		level.SetLevel(zap.DebugLevel)
		return
	}
	level.SetLevel(zap.InfoLevel)
}
