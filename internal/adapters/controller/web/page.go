package web

const popupPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Tab QR</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #fafafa;
    color: #222;
    padding: 16px;
    min-width: 320px;
  }
  #qr {
    display: inline-flex;
    align-items: center;
    justify-content: center;
    min-height: 120px;
    margin: 12px 0;
    background: #fff;
  }
  #qr img { display: block; }
  #qr .placeholder { color: #b00; font-size: 13px; padding: 16px; }
  .row { display: flex; gap: 8px; align-items: center; margin: 6px 0; }
  #url { flex: 1; padding: 4px 6px; }
  .settings label { font-size: 13px; }
  #status { font-size: 12px; color: #888; min-height: 16px; }
</style>
</head>
<body>
<div class="row">
  <input id="url" type="text" aria-label="Text to encode">
  <button id="copy">Copy</button>
</div>
<div id="qr" aria-busy="true"></div>
<div class="settings">
  <div class="row">
    <label for="size">Size</label>
    <select id="size">
      <option value="200">200</option>
      <option value="240">240</option>
      <option value="300">300</option>
      <option value="400">400</option>
    </select>
    <label for="ec">Error correction</label>
    <select id="ec">
      <option value="L">L</option>
      <option value="M">M</option>
      <option value="Q">Q</option>
      <option value="H">H</option>
    </select>
  </div>
  <div class="row">
    <label for="logoFile">Logo</label>
    <input id="logoFile" type="file" accept="image/*,.svg">
    <button id="clearLogo">Remove</button>
  </div>
  <div class="row">
    <label for="logoScale">Logo scale, %</label>
    <input id="logoScale" type="number" min="0" max="100">
    <button id="apply">Apply</button>
    <button id="download">Download PNG</button>
  </div>
</div>
<div id="status"></div>
<script>
(function() {
  var $ = function(s) { return document.querySelector(s); };
  var qrBox = $('#qr');
  var urlInput = $('#url');
  var statusEl = $('#status');

  function clearChildren(el) {
    while (el.firstChild) el.removeChild(el.firstChild);
  }

  function show(state) {
    urlInput.value = state.text || '';
    $('#size').value = String(state.settings.size);
    $('#ec').value = state.settings.ec;
    $('#logoScale').value = String(state.settings.logoScale);
    clearChildren(qrBox);
    if (state.frame.png) {
      var img = document.createElement('img');
      img.setAttribute('alt', 'QR Code');
      img.width = state.frame.width;
      img.height = state.frame.width;
      img.src = 'data:image/png;base64,' + state.frame.png;
      qrBox.appendChild(img);
    } else {
      var p = document.createElement('span');
      p.className = 'placeholder';
      p.textContent = state.frame.placeholder || 'Failed to render QR code';
      qrBox.appendChild(p);
    }
    qrBox.setAttribute('aria-busy', 'false');
    statusEl.textContent = state.persisted === false ? 'Settings apply to this popup only' : '';
  }

  function request(method, path, body) {
    var init = { method: method, credentials: 'same-origin' };
    if (body instanceof FormData) {
      init.body = body;
    } else if (body) {
      init.body = JSON.stringify(body);
      init.headers = { 'Content-Type': 'application/json' };
    }
    return fetch(path, init).then(function(r) { return r.json(); }).then(function(data) {
      if (data.error) throw new Error(data.error);
      return data;
    });
  }

  function fail(e) { statusEl.textContent = e.message; }

  var u = new URLSearchParams(location.search).get('u');
  request('GET', '/api/state' + (u ? '?u=' + encodeURIComponent(u) : '')).then(show).catch(fail);

  $('#apply').addEventListener('click', function() {
    request('POST', '/api/apply', {
      text: urlInput.value,
      size: parseInt($('#size').value, 10),
      ec: $('#ec').value,
      logoScale: parseInt($('#logoScale').value, 10)
    }).then(show).catch(fail);
  });

  $('#logoFile').addEventListener('change', function(ev) {
    var file = ev.target.files[0];
    if (!file) return;
    var form = new FormData();
    form.append('logo', file, file.name);
    request('POST', '/api/logo', form).then(show).catch(fail);
  });

  $('#clearLogo').addEventListener('click', function() {
    $('#logoFile').value = '';
    request('DELETE', '/api/logo').then(show).catch(fail);
  });

  $('#download').addEventListener('click', function() {
    window.location.href = '/api/download';
  });

  var copyBtn = $('#copy');
  copyBtn.addEventListener('click', function() {
    navigator.clipboard.writeText(urlInput.value).then(function() {
      copyBtn.textContent = 'Copied!';
    }, function() {
      copyBtn.textContent = 'Copy failed';
    }).then(function() {
      setTimeout(function() { copyBtn.textContent = 'Copy'; }, 1200);
    });
  });

  window.addEventListener('pagehide', function() {
    fetch('/api/session', { method: 'DELETE', keepalive: true, credentials: 'same-origin' });
  });
})();
</script>
</body>
</html>`
