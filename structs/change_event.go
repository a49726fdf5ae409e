package structs

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Change stream operation types that need special handling.
const (
	OperationInvalidate = "invalidate"
)

type ChangeNamespace struct {
	DB   string `bson:"db"`
	Coll string `bson:"coll"`
}

func (ns ChangeNamespace) String() string {
	if ns.DB == "" && ns.Coll == "" {
		return ""
	}
	return ns.DB + "." + ns.Coll
}

// ChangeEvent is the subset of a change stream document the watcher logs.
type ChangeEvent struct {
	OperationType string              `bson:"operationType"`
	Namespace     ChangeNamespace     `bson:"ns"`
	DocumentKey   bson.M              `bson:"documentKey,omitempty"`
	FullDocument  bson.Raw            `bson:"fullDocument,omitempty"`
	ClusterTime   primitive.Timestamp `bson:"clusterTime,omitempty"`
}
