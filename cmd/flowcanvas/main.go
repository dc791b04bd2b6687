package main

import (
	"oss.terrastruct.com/flowcanvas/fccli"
	"oss.terrastruct.com/flowcanvas/lib/xmain"
)

func main() {
	xmain.Main(fccli.Run)
}
