// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package crocopat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDot(t *testing.T) {
	env := newTestEnv(t, smallConfig(), []string{"a", "b"}, "X", "Y")
	r := pairs(env, "X", "Y", [2]string{"a", "b"})
	free := []string{"X", "Y"}

	var buf bytes.Buffer
	require.NoError(t, r.WriteDot(&buf, free))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "digraph BDD {\nsize=\"7.5,10\";\n\n{ rank=same;\n"))
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `label="X_0"];`)
	assert.Contains(t, out, `label="Y_0"];`)
	assert.Contains(t, out, "}\n\n{ rank=same;\n")
	assert.Contains(t, out, `1 [fontname="Helvetica",fontsize="16",height="0.3",width="0.5",color=black,style=unfilled,shape=box,label="1"];`)
	assert.Contains(t, out, `shape=box,label="0"];`)
	assert.Equal(t, 2, strings.Count(out, `style=dotted]`))
	assert.Equal(t, 2, strings.Count(out, `style=solid]`))

	// terminals only appear when reachable
	buf.Reset()
	require.NoError(t, env.True().WriteDot(&buf, free))
	out = buf.String()
	assert.Contains(t, out, `label="1"];`)
	assert.NotContains(t, out, `label="0"];`)
	assert.NotContains(t, out, "->")
	buf.Reset()
	require.NoError(t, env.False().WriteDot(&buf, free))
	assert.NotContains(t, buf.String(), `label="1"];`)
}

func TestWriteNodesPerVar(t *testing.T) {
	env := newTestEnv(t, smallConfig(), []string{"a", "b", "c"}, "X", "Y")
	free := []string{"X", "Y"}
	r := pairs(env, "X", "Y", [2]string{"a", "b"})

	var buf bytes.Buffer
	require.NoError(t, r.WriteNodesPerVar(&buf, free))
	assert.Equal(t, "X_0(0)\n1\nX_1(1)\n1\nY_0(2)\n1\nY_1(3)\n1\n", buf.String())

	// X = c only tests the first bit of X
	buf.Reset()
	require.NoError(t, env.MkAttributeValue("X", "c").WriteNodesPerVar(&buf, []string{"X"}))
	assert.Equal(t, "X_0(0)\n1\nX_1(1)\n0\n", buf.String())

	buf.Reset()
	require.NoError(t, env.True().WriteNodesPerVar(&buf, free))
	assert.Equal(t, "0\n", buf.String())
}

func TestWriteBDDInfo(t *testing.T) {
	cfg := smallConfig()
	cfg.Nodes = 100
	env := newTestEnv(t, cfg, []string{"a", "b"}, "X", "Y")
	r := pairs(env, "X", "Y", [2]string{"a", "b"})

	var buf bytes.Buffer
	require.NoError(t, r.WriteBDDInfo(&buf))
	assert.Equal(t, "Number of BDD nodes: 2\nPercentage of free nodes in BDD package: 98 / 100 = 98 %\n", buf.String())
}
