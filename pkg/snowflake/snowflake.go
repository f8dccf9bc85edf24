package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	mu   sync.RWMutex
	node *snowflake.Node
)

func init() {
	node, _ = snowflake.NewNode(1)
}

// Init 按配置重建节点，多实例部署时 nodeID 需唯一
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return err
	}
	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

func GenID() int64 {
	mu.RLock()
	defer mu.RUnlock()
	return node.Generate().Int64()
}

// GenString 用作支付流水号等对外展示的编号
func GenString() string {
	mu.RLock()
	defer mu.RUnlock()
	return node.Generate().String()
}
