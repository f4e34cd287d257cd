package feed

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"exec-sim/internal/book"
)

// CSVProvider 逐行读取历史盘口深度文件。
// 行格式：首行为表头；数据行第3列（下标2）为微秒时间戳，
// 自下标4起每4列为一组 (ask价, ask量, bid价, bid量)，按档位由优到劣排列。
type CSVProvider struct {
	file    *os.File
	scanner *bufio.Scanner
	line    int
}

// NewCSVProvider 打开深度文件并跳过表头。
func NewCSVProvider(path string) (*CSVProvider, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("feed: 打开深度文件失败: %w", err)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	p := &CSVProvider{file: file, scanner: scanner}
	if scanner.Scan() {
		p.line++
	}
	if err := scanner.Err(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("feed: 读取表头失败: %w", err)
	}

	return p, nil
}

// Next 返回下一条快照，文件耗尽时 ok 为 false。
func (p *CSVProvider) Next(ctx context.Context) (book.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return book.Snapshot{}, false, err
	}

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return book.Snapshot{}, false, fmt.Errorf("feed: 读取第%d行失败: %w", p.line+1, err)
		}
		return book.Snapshot{}, false, nil
	}
	p.line++

	snap, err := parseLine(p.scanner.Text())
	if err != nil {
		return book.Snapshot{}, false, fmt.Errorf("feed: 解析第%d行失败: %w", p.line, err)
	}
	return snap, true, nil
}

// Close 关闭底层文件。
func (p *CSVProvider) Close() error {
	if p.file == nil {
		return nil
	}
	return p.file.Close()
}

func parseLine(line string) (book.Snapshot, error) {
	tokens := strings.Split(line, ",")
	if len(tokens) < 8 {
		return book.Snapshot{}, fmt.Errorf("列数不足: %d", len(tokens))
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(tokens[2]), 10, 64)
	if err != nil {
		return book.Snapshot{}, fmt.Errorf("时间戳无效 %q: %w", tokens[2], err)
	}

	depth := (len(tokens) - 4) / 4
	asks := make([]book.Level, 0, depth)
	bids := make([]book.Level, 0, depth)

	for i := 4; i < len(tokens)-4; i += 4 {
		askPrice, err := parseFloat(tokens[i])
		if err != nil {
			return book.Snapshot{}, err
		}
		askAmount, err := parseFloat(tokens[i+1])
		if err != nil {
			return book.Snapshot{}, err
		}
		bidPrice, err := parseFloat(tokens[i+2])
		if err != nil {
			return book.Snapshot{}, err
		}
		bidAmount, err := parseFloat(tokens[i+3])
		if err != nil {
			return book.Snapshot{}, err
		}

		asks = append(asks, book.Level{Price: askPrice, Amount: askAmount})
		bids = append(bids, book.Level{Price: bidPrice, Amount: bidAmount})
	}

	return book.Snapshot{Timestamp: ts, Asks: asks, Bids: bids}, nil
}

func parseFloat(token string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err != nil {
		return 0, fmt.Errorf("数值无效 %q: %w", token, err)
	}
	return v, nil
}
