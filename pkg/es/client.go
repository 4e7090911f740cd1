// Package es 提供了与 Elasticsearch 交互的客户端功能。
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"city-pet-go/internal/config"
	"city-pet-go/internal/model"
	"city-pet-go/pkg/log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ESClient *elasticsearch.Client

// InitES 初始化 Elasticsearch 客户端，并确保 FAQ 索引与分析索引存在。
func InitES(esCfg config.ElasticsearchConfig) error {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client

	if err := createIndexIfNotExists(esCfg.FAQIndex, faqMapping); err != nil {
		return err
	}
	return createIndexIfNotExists(esCfg.AnalyticsIndex, analyticsMapping)
}

// faqMapping 定义 FAQ 索引结构；question/answer/keywords 参与全文检索。
const faqMapping = `{
	"mappings": {
		"properties": {
			"faq_id": { "type": "long" },
			"question": { "type": "text" },
			"answer": { "type": "text" },
			"keywords": { "type": "text" },
			"category": { "type": "keyword" },
			"priority": { "type": "integer" },
			"is_active": { "type": "boolean" }
		}
	}
}`

// analyticsMapping 定义聊天事件分析索引结构。
const analyticsMapping = `{
	"mappings": {
		"properties": {
			"session_id": { "type": "keyword" },
			"intent": { "type": "keyword" },
			"emergency_level": { "type": "keyword" },
			"source": { "type": "keyword" },
			"response_time_ms": { "type": "long" },
			"occurred_at": { "type": "date" }
		}
	}
}`

// createIndexIfNotExists 检查索引是否存在，如果不存在则按给定 mapping 创建。
func createIndexIfNotExists(indexName, mapping string) error {
	res, err := ESClient.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("检查索引是否存在时出错: %v", err)
		return err
	}
	// 200 说明索引已存在
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("索引 '%s' 已存在", indexName)
		return nil
	}
	// 404 说明索引不存在，需要创建
	if res.StatusCode != http.StatusNotFound {
		log.Errorf("检查索引 '%s' 是否存在时收到意外的状态码: %d", indexName, res.StatusCode)
		return fmt.Errorf("检查索引是否存在时收到意外的状态码: %d", res.StatusCode)
	}

	res, err = ESClient.Indices.Create(
		indexName,
		ESClient.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		log.Errorf("创建索引 '%s' 失败: %v", indexName, err)
		return err
	}
	if res.IsError() {
		log.Errorf("创建索引 '%s' 时 Elasticsearch 返回错误: %s", indexName, res.String())
		return errors.New("创建索引时 Elasticsearch 返回错误")
	}

	log.Infof("索引 '%s' 创建成功", indexName)
	return nil
}

// IndexFAQDocument 将单条 FAQ 镜像到 Elasticsearch，文档 ID 取 FAQ 主键。
func IndexFAQDocument(ctx context.Context, indexName string, doc model.EsFAQDocument) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: strconv.FormatUint(uint64(doc.FAQID), 10),
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("索引 FAQ 文档到 Elasticsearch 出错: %s", res.String())
		return errors.New("failed to index faq document")
	}

	return nil
}

// DeleteFAQDocument 从 Elasticsearch 中移除一条 FAQ 镜像。
func DeleteFAQDocument(ctx context.Context, indexName string, faqID uint) error {
	req := esapi.DeleteRequest{
		Index:      indexName,
		DocumentID: strconv.FormatUint(uint64(faqID), 10),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// 404 视为已删除
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		log.Errorf("从 Elasticsearch 删除 FAQ 文档出错: %s", res.String())
		return errors.New("failed to delete faq document")
	}

	return nil
}

// IndexChatEvent 将一条聊天事件写入分析索引。
func IndexChatEvent(ctx context.Context, indexName string, doc model.ChatEventDocument) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index: indexName,
		Body:  bytes.NewReader(docBytes),
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("索引聊天事件到 Elasticsearch 出错: %s", res.String())
		return errors.New("failed to index chat event")
	}

	return nil
}
