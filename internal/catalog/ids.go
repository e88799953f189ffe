package catalog

import (
	"github.com/bwmarrin/snowflake"
)

// IDGenerator hands out ids for locally created products
type IDGenerator interface {
	NextID() int64
}

// SnowflakeIDs generates time ordered ids that do not repeat within a node
type SnowflakeIDs struct {
	node *snowflake.Node
}

func NewSnowflakeIDs(nodeID int64) (*SnowflakeIDs, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &SnowflakeIDs{node: node}, nil
}

func (s *SnowflakeIDs) NextID() int64 {
	return s.node.Generate().Int64()
}
