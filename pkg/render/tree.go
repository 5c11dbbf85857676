package render

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pgpdump/pkg/algo"
	"github.com/matzehuels/pgpdump/pkg/dump"
)

// Member is one key/value pair of an [Object].
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object that keeps its keys in insertion order.
type Object struct {
	Members []Member
}

// Set adds key, replacing the value in place if the key already exists.
func (o *Object) Set(key string, v any) {
	for i := range o.Members {
		if o.Members[i].Key == key {
			o.Members[i].Value = v
			return
		}
	}
	o.Members = append(o.Members, Member{Key: key, Value: v})
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	for _, m := range o.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.Members))
	for i, m := range o.Members {
		keys[i] = m.Key
	}
	return keys
}

// MarshalJSON implements json.Marshaler, preserving key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o.Members {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler, preserving key order.
func (o *Object) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, m := range o.Members {
		k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key}
		v := &yaml.Node{}
		if err := v.Encode(m.Value); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, k, v)
	}
	return n, nil
}

// Tree converts n to an ordered object. ok is false for nodes that have no
// structured form (text-only markers and decoration).
func Tree(n *dump.Node) (obj *Object, ok bool) {
	if n.TextOnly {
		return nil, false
	}
	obj = &Object{}
	if n.Marker != "" {
		obj.Set("marker", n.Marker)
		return obj, true
	}
	fill(obj, n)
	return obj, true
}

func fill(obj *Object, n *dump.Node) {
	for _, e := range n.Entries {
		if e.Vis.InTree() {
			member(obj, e)
		}
	}
}

func member(obj *Object, e dump.Entry) {
	switch v := e.Value.(type) {
	case dump.Section:
		if v.Node.TextOnly {
			return
		}
		if e.Key == "" {
			fill(obj, v.Node)
			return
		}
		sub, _ := Tree(v.Node)
		obj.Set(e.Key, sub)
		return
	case dump.List:
		if e.Key == "" {
			return
		}
		items := make([]*Object, 0, len(v.Items))
		for _, item := range v.Items {
			if sub, ok := Tree(item); ok {
				items = append(items, sub)
			}
		}
		obj.Set(e.Key, items)
		return
	}

	if e.Key == "" {
		return
	}
	switch v := e.Value.(type) {
	case dump.Int:
		obj.Set(e.Key, int64(v))
	case dump.String:
		obj.Set(e.Key, string(v))
	case dump.Bool:
		obj.Set(e.Key, bool(v))
	case dump.Time:
		obj.Set(e.Key, uint32(v))
	case dump.Expiration:
		obj.Set(e.Key, uint32(v))
	case dump.Char:
		obj.Set(e.Key, string([]byte{byte(v)}))
	case dump.Hex:
		obj.Set(e.Key, dump.HexString(v.Data))
	case dump.Count:
		obj.Set(e.Key, int64(v))
	case dump.Alg:
		obj.Set(e.Key, v.ID)
		obj.Set(e.Key+".str", v.Table.Name(v.ID))
	case dump.AlgList:
		names := make([]string, len(v.IDs))
		for i, id := range v.IDs {
			names[i] = v.Table.Name(id)
		}
		obj.Set(e.Key, v.IDs)
		obj.Set(e.Key+".str", names)
	case dump.Flags:
		names := algo.FlagNames(v.Names, v.Value)
		if names == nil {
			names = []string{}
		}
		obj.Set(e.Key, int(v.Value))
		obj.Set(e.Key+".str", names)
	case dump.MPI:
		obj.Set(e.Key+".bits", v.M.Bits())
		if v.Raw {
			obj.Set(e.Key+".raw", dump.HexString(v.M.Bytes))
		}
	case dump.Opaque:
		obj.Set(e.Key, dump.HexString(v.Data))
	case dump.Hexdump:
		obj.Set(e.Key, dump.HexString(v.Data))
	}
}
